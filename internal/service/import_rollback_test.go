package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/planline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exec order inside the import transaction for bridgePlan:
// #1 project, #2 root node, #3-#7 nodes, #8-#9 costs, #10 edge, #11 claim,
// then one write per rolled-up ancestor.
func TestImportService_RollbackOnFailure(t *testing.T) {
	cases := []struct {
		name      string
		failOn    int32
		statement string
	}{
		{"second node", 4, "INSERT INTO wbs_nodes"},
		{"task cost", 9, "INSERT INTO task_costs"},
		{"dependency", 10, "INSERT INTO dependency_edges"},
		{"claim", 11, "INSERT INTO progress_claims"},
		{"rollup write", 13, "UPDATE wbs_nodes SET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupServices(t)
			ctx := context.Background()
			uow := &testutil.FailOnNthExecUoW{
				DB:     env.db,
				FailOn: tc.failOn,
				Err:    fmt.Errorf("injected failure at exec %d", tc.failOn),
			}
			env.wire(uow)

			_, err := env.Import.ImportSchema(ctx, bridgePlan("RBK01"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "injected failure")
			assert.Equal(t, tc.statement, uow.FailedStatement())
			assert.Equal(t, int(tc.failOn), uow.Execs(), "nothing runs after the failed write")

			projects, err := env.projects.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, projects, "no project should exist after rollback")

			for _, table := range []string{"wbs_nodes", "task_costs", "dependency_edges", "progress_claims"} {
				assert.Zero(t, testutil.CountRows(t, env.db, table), table)
			}
		})
	}
}

func TestImportService_SuccessThroughFailingUoWWhenNotTriggered(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	uow := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 1000, Err: fmt.Errorf("never")}
	env.wire(uow)

	result, err := env.Import.ImportSchema(ctx, bridgePlan("RBK02"))
	require.NoError(t, err)
	assert.Empty(t, uow.FailedStatement())
	assert.Equal(t, 11+result.RolledUp, uow.Execs(), "eleven inserts plus one write per rolled-up ancestor")

	nodes, err := env.nodes.ListByProject(ctx, result.Project.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 6, "root plus five imported nodes")
}
