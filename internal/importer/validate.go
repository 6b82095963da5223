package importer

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/planline/internal/depgraph"
	"github.com/alexanderramin/planline/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	kinds := make(map[string]domain.NodeKind)
	errs = append(errs, validateNodes(schema.Nodes, kinds)...)
	errs = append(errs, validateDependencies(schema.Dependencies, kinds)...)
	errs = append(errs, validateClaims(schema.Claims)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	proj := domain.Project{ShortID: p.ShortID}
	if err := proj.ValidateShortID(); err != nil {
		errs = append(errs, fmt.Errorf("project.%w", err))
	}
	return errs
}

// validateNodes records each valid ref's kind in kinds. Parents must appear
// before their children and every node must sit exactly one level below its parent.
func validateNodes(nodes []NodeImport, kinds map[string]domain.NodeKind) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, n := range nodes {
		prefix := fmt.Sprintf("nodes[%d]", i)

		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if seen[n.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, n.Ref))
		}
		if n.Ref != "" {
			seen[n.Ref] = true
		}

		if n.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}

		kind, err := domain.ParseNodeKind(n.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
			continue
		}
		if kind == domain.NodeProject {
			errs = append(errs, fmt.Errorf("%s.kind: project nodes are created from the project block", prefix))
			continue
		}

		parentKind := domain.NodeProject
		if n.ParentRef != nil && *n.ParentRef != "" {
			pk, ok := kinds[*n.ParentRef]
			if !ok {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in nodes list)", prefix, *n.ParentRef))
				continue
			}
			parentKind = pk
		}
		if want, ok := parentKind.ChildKind(); !ok || want != kind {
			errs = append(errs, fmt.Errorf("%s.kind: %s cannot be placed under %s", prefix, kind, parentKind))
		}

		errs = append(errs, validateNodeValues(prefix, kind, n)...)

		if n.Ref != "" {
			kinds[n.Ref] = kind
		}
	}

	return errs
}

func validateNodeValues(prefix string, kind domain.NodeKind, n NodeImport) []error {
	if !kind.IsLeaf() {
		if n.Start != nil || n.Finish != nil || n.Hours != nil || n.Cost != nil {
			return []error{fmt.Errorf("%s: start, finish, hours and cost are rolled up for %s nodes and cannot be set", prefix, kind)}
		}
		return nil
	}

	var errs []error
	start, err := parseOptionalDate(prefix+".start", n.Start)
	if err != nil {
		errs = append(errs, err)
	}
	finish, err := parseOptionalDate(prefix+".finish", n.Finish)
	if err != nil {
		errs = append(errs, err)
	}
	if start != nil && finish != nil && finish.Before(*start) {
		errs = append(errs, fmt.Errorf("%s.finish %q is before start %q", prefix, *n.Finish, *n.Start))
	}
	if n.Hours != nil && !nonNegative(*n.Hours) {
		errs = append(errs, fmt.Errorf("%s.hours must be a nonnegative number", prefix))
	}
	if n.Cost != nil {
		if !nonNegative(*n.Cost) {
			errs = append(errs, fmt.Errorf("%s.cost must be a nonnegative number", prefix))
		}
		if n.Start == nil || n.Finish == nil {
			errs = append(errs, fmt.Errorf("%s.cost requires start and finish", prefix))
		}
	}
	return errs
}

// validateDependencies checks refs and rejects any edge that would close a
// cycle over the edges listed before it.
func validateDependencies(deps []DependencyImport, kinds map[string]domain.NodeKind) []error {
	var errs []error
	g := depgraph.New()

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)
		ok := true

		for _, ref := range []struct{ field, value string }{
			{"origin_ref", d.OriginRef},
			{"dependent_ref", d.DependentRef},
		} {
			switch kind, found := kinds[ref.value]; {
			case ref.value == "":
				errs = append(errs, fmt.Errorf("%s.%s is required", prefix, ref.field))
				ok = false
			case !found:
				errs = append(errs, fmt.Errorf("%s.%s: ref %q not found in nodes", prefix, ref.field, ref.value))
				ok = false
			case !kind.IsLeaf():
				errs = append(errs, fmt.Errorf("%s.%s: ref %q is a %s, dependencies link tasks only", prefix, ref.field, ref.value, kind))
				ok = false
			}
		}

		relation := domain.FinishToStart
		if d.Relation != "" {
			r, err := domain.ParseRelationKind(d.Relation)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
				ok = false
			}
			relation = r
		}
		if d.LagMinutes < 0 {
			errs = append(errs, fmt.Errorf("%s.lag_minutes must be >= 0", prefix))
		}
		if !ok {
			continue
		}

		if g.HasEdge(d.OriginRef, d.DependentRef) {
			errs = append(errs, fmt.Errorf("%s: duplicate dependency %q -> %q", prefix, d.OriginRef, d.DependentRef))
			continue
		}
		if err := g.CheckEdge(d.OriginRef, d.DependentRef, relation); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
			continue
		}
		g.Add(d.OriginRef, d.DependentRef)
	}

	return errs
}

func validateClaims(claims []ClaimImport) []error {
	var errs []error
	for i, c := range claims {
		prefix := fmt.Sprintf("claims[%d]", i)
		if c.PeriodEnd == "" {
			errs = append(errs, fmt.Errorf("%s.period_end is required", prefix))
		} else if _, err := time.Parse(dateLayout, c.PeriodEnd); err != nil {
			errs = append(errs, fmt.Errorf("%s.period_end: invalid date format %q (expected YYYY-MM-DD)", prefix, c.PeriodEnd))
		}
		if !nonNegative(c.Amount) {
			errs = append(errs, fmt.Errorf("%s.amount must be a nonnegative number", prefix))
		}
	}
	return errs
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)
	}
	return &t, nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
