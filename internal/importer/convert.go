package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/google/uuid"
)

// Plan is a converted import, ready for persistence. Nodes are ordered so
// every parent precedes its children.
type Plan struct {
	Project *domain.Project
	Root    *domain.WbsNode
	Nodes   []*domain.WbsNode
	Costs   []domain.TaskCost
	Edges   []*domain.DependencyEdge
	Claims  []*domain.ProgressClaim
}

// TaskCount returns the number of leaf nodes in the plan.
func (p *Plan) TaskCount() int {
	n := 0
	for _, node := range p.Nodes {
		if node.IsLeaf() {
			n++
		}
	}
	return n
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*Plan, error) {
	now := time.Now().UTC()

	project, root, err := domain.NewProject(uuid.New().String(), uuid.New().String(),
		schema.Project.Name, schema.Project.ShortID, now)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Project: project, Root: root}

	refMap := make(map[string]string) // ref -> UUID

	for _, n := range schema.Nodes {
		realID := uuid.New().String()
		refMap[n.Ref] = realID

		parentID := root.ID
		if n.ParentRef != nil && *n.ParentRef != "" {
			pid, ok := refMap[*n.ParentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for node %q", *n.ParentRef, n.Ref)
			}
			parentID = pid
		}

		start, _ := parseOptionalDate("start", n.Start)
		finish, _ := parseOptionalDate("finish", n.Finish)

		node := &domain.WbsNode{
			ID:           realID,
			ProjectID:    project.ID,
			ParentID:     &parentID,
			Title:        n.Title,
			Kind:         domain.NodeKind(n.Kind),
			OrderIndex:   n.Order,
			DateStart:    start,
			DateFinish:   finish,
			HoursPlanned: n.Hours,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		plan.Nodes = append(plan.Nodes, node)

		if n.Cost != nil && start != nil && finish != nil {
			plan.Costs = append(plan.Costs, domain.TaskCost{
				TaskID: realID,
				Start:  *start,
				Finish: *finish,
				Cost:   *n.Cost,
			})
		}
	}

	for _, d := range schema.Dependencies {
		origin, ok := refMap[d.OriginRef]
		if !ok {
			return nil, fmt.Errorf("origin_ref %q not found", d.OriginRef)
		}
		dependent, ok := refMap[d.DependentRef]
		if !ok {
			return nil, fmt.Errorf("dependent_ref %q not found", d.DependentRef)
		}
		relation := domain.FinishToStart
		if d.Relation != "" {
			r, err := domain.ParseRelationKind(d.Relation)
			if err != nil {
				return nil, err
			}
			relation = r
		}
		plan.Edges = append(plan.Edges, &domain.DependencyEdge{
			ID:              uuid.New().String(),
			ProjectID:       project.ID,
			OriginTaskID:    origin,
			DependentTaskID: dependent,
			Kind:            relation,
			LagMinutes:      d.LagMinutes,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	for _, c := range schema.Claims {
		periodEnd, err := time.Parse(dateLayout, c.PeriodEnd)
		if err != nil {
			return nil, fmt.Errorf("parsing claim period_end: %w", err)
		}
		plan.Claims = append(plan.Claims, &domain.ProgressClaim{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			PeriodEnd: periodEnd,
			Amount:    c.Amount,
			Note:      c.Note,
			CreatedAt: now,
		})
	}

	return plan, nil
}
