package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string     { return &s }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{ShortID: "BRG01", Name: "Bridge"},
		Nodes: []NodeImport{
			{Ref: "ph", Title: "Foundations", Kind: "phase"},
			{Ref: "wp", ParentRef: ptrStr("ph"), Title: "Piles", Kind: "work_package"},
			{Ref: "ac", ParentRef: ptrStr("wp"), Title: "Drive piles", Kind: "activity"},
			{Ref: "t1", ParentRef: ptrStr("ac"), Title: "Set out", Kind: "task",
				Start: ptrStr("2025-01-06"), Finish: ptrStr("2025-01-15"), Hours: ptrFloat(40), Cost: ptrFloat(1000)},
			{Ref: "t2", ParentRef: ptrStr("ac"), Title: "Drive", Kind: "task",
				Start: ptrStr("2025-01-13"), Finish: ptrStr("2025-01-24"), Hours: ptrFloat(25)},
		},
	}
}

func joinErrs(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema())
	assert.Empty(t, errs, joinErrs(errs))
}

func TestValidateImportSchema_ValidWithEdgesAndClaims(t *testing.T) {
	schema := validMinimalSchema()
	schema.Dependencies = []DependencyImport{{OriginRef: "t1", DependentRef: "t2", Relation: "SS", LagMinutes: 60}}
	schema.Claims = []ClaimImport{{PeriodEnd: "2025-01-12", Amount: 300}}

	errs := ValidateImportSchema(schema)
	assert.Empty(t, errs, joinErrs(errs))
}

func TestValidateImportSchema_ProjectFields(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project = ProjectImport{ShortID: "bad"}

	msg := joinErrs(ValidateImportSchema(schema))
	assert.Contains(t, msg, "project.name is required")
	assert.Contains(t, msg, "project.short_id")
}

func TestValidateImportSchema_DuplicateRef(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes = append(schema.Nodes, NodeImport{Ref: "t1", ParentRef: ptrStr("ac"), Title: "Again", Kind: "task"})

	assert.Contains(t, joinErrs(ValidateImportSchema(schema)), `duplicate ref "t1"`)
}

func TestValidateImportSchema_ParentMustComeFirst(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes = append([]NodeImport{{Ref: "early", ParentRef: ptrStr("late"), Title: "Early", Kind: "work_package"}}, schema.Nodes...)

	assert.Contains(t, joinErrs(ValidateImportSchema(schema)), "must appear earlier")
}

func TestValidateImportSchema_NestingOrder(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes = append(schema.Nodes, NodeImport{Ref: "skip", ParentRef: ptrStr("ph"), Title: "Skips a level", Kind: "task"})

	assert.Contains(t, joinErrs(ValidateImportSchema(schema)), "task cannot be placed under phase")
}

func TestValidateImportSchema_UnknownKind(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes = append(schema.Nodes, NodeImport{Ref: "x", Title: "Epic", Kind: "epic"})

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], domain.ErrValidation))
}

func TestValidateImportSchema_RolledUpFieldsRejectedOnNonLeaf(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes[0].Hours = ptrFloat(10)

	assert.Contains(t, joinErrs(ValidateImportSchema(schema)), "rolled up for phase nodes")
}

func TestValidateImportSchema_TaskValues(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes[3].Finish = ptrStr("2025-01-01")
	schema.Nodes[4].Hours = ptrFloat(-1)
	schema.Nodes[4].Cost = ptrFloat(10)
	schema.Nodes[4].Start = ptrStr("13/01/2025")

	msg := joinErrs(ValidateImportSchema(schema))
	assert.Contains(t, msg, "nodes[3].finish")
	assert.Contains(t, msg, "nodes[4].hours must be a nonnegative number")
	assert.Contains(t, msg, "nodes[4].start: invalid date format")
}

func TestValidateImportSchema_CostRequiresWindow(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes[4].Start = nil

	schema.Nodes[4].Cost = ptrFloat(50)
	assert.Contains(t, joinErrs(ValidateImportSchema(schema)), "cost requires start and finish")
}

func TestValidateImportSchema_DependencyRefs(t *testing.T) {
	schema := validMinimalSchema()
	schema.Dependencies = []DependencyImport{
		{OriginRef: "t1", DependentRef: "missing"},
		{OriginRef: "ac", DependentRef: "t2"},
		{OriginRef: "t1", DependentRef: "t2", Relation: "XX"},
		{OriginRef: "t1", DependentRef: "t2", LagMinutes: -5},
	}

	msg := joinErrs(ValidateImportSchema(schema))
	assert.Contains(t, msg, `ref "missing" not found`)
	assert.Contains(t, msg, "dependencies link tasks only")
	assert.Contains(t, msg, "unknown relation kind")
	assert.Contains(t, msg, "lag_minutes must be >= 0")
}

func TestValidateImportSchema_SelfDependency(t *testing.T) {
	schema := validMinimalSchema()
	schema.Dependencies = []DependencyImport{{OriginRef: "t1", DependentRef: "t1"}}

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], domain.ErrCyclicDependency))
}

func TestValidateImportSchema_CircularDependency(t *testing.T) {
	schema := validMinimalSchema()
	schema.Nodes = append(schema.Nodes, NodeImport{Ref: "t3", ParentRef: ptrStr("ac"), Title: "Cap", Kind: "task"})
	schema.Dependencies = []DependencyImport{
		{OriginRef: "t1", DependentRef: "t2"},
		{OriginRef: "t2", DependentRef: "t3"},
		{OriginRef: "t3", DependentRef: "t1"},
	}

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], domain.ErrCyclicDependency))
	assert.Contains(t, errs[0].Error(), "dependencies[2]")
	assert.Contains(t, errs[0].Error(), "t1 -> t2 -> t3")
}

func TestValidateImportSchema_DuplicateDependency(t *testing.T) {
	schema := validMinimalSchema()
	schema.Dependencies = []DependencyImport{
		{OriginRef: "t1", DependentRef: "t2"},
		{OriginRef: "t1", DependentRef: "t2", Relation: "FF"},
	}

	assert.Contains(t, joinErrs(ValidateImportSchema(schema)), "duplicate dependency")
}

func TestValidateImportSchema_Claims(t *testing.T) {
	schema := validMinimalSchema()
	schema.Claims = []ClaimImport{
		{PeriodEnd: "", Amount: 1},
		{PeriodEnd: "2025-13-01", Amount: 1},
		{PeriodEnd: "2025-01-12", Amount: -3},
	}

	msg := joinErrs(ValidateImportSchema(schema))
	assert.Contains(t, msg, "claims[0].period_end is required")
	assert.Contains(t, msg, "claims[1].period_end: invalid date format")
	assert.Contains(t, msg, "claims[2].amount must be a nonnegative number")
}
