package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/rollup"
	"github.com/alexanderramin/planline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWbsService_CreateTaskRollsUpToRoot(t *testing.T) {
	env := setupServices(t)
	c := env.newChain(t, "RUP01")

	env.addTask(t, c.activity, "Excavate",
		testutil.WithDates(testutil.Date(2025, 1, 6), testutil.Date(2025, 1, 17)),
		testutil.WithHours(40))
	env.addTask(t, c.activity, "Pour",
		testutil.WithDates(testutil.Date(2025, 1, 13), testutil.Date(2025, 1, 31)),
		testutil.WithHours(25))

	for _, id := range []string{c.activity, c.pkg, c.phase, c.root} {
		n := env.node(t, id)
		require.NotNil(t, n.HoursPlanned, n.Kind)
		assert.Equal(t, 65.0, *n.HoursPlanned, n.Kind)
		assert.Equal(t, testutil.Date(2025, 1, 6), *n.DateStart, n.Kind)
		assert.Equal(t, testutil.Date(2025, 1, 31), *n.DateFinish, n.Kind)
	}
}

// Root with three phases of 40, 25 and no tasks rolls up to 65.
func TestWbsService_RootRollupSkipsEmptyPhase(t *testing.T) {
	env := setupServices(t)
	c := env.newChain(t, "SIX01")

	second := env.addNode(t, c.root, domain.NodePhase, "Phase 2")
	secondPkg := env.addNode(t, second, domain.NodeWorkPackage, "WP 2")
	secondAct := env.addNode(t, secondPkg, domain.NodeActivity, "Act 2")
	third := env.addNode(t, c.root, domain.NodePhase, "Phase 3")

	env.addTask(t, c.activity, "A", testutil.WithHours(40))
	env.addTask(t, secondAct, "B", testutil.WithHours(25))

	assert.Equal(t, 40.0, *env.node(t, c.phase).HoursPlanned)
	assert.Equal(t, 25.0, *env.node(t, second).HoursPlanned)
	assert.Nil(t, env.node(t, third).HoursPlanned)
	assert.Equal(t, 65.0, *env.node(t, c.root).HoursPlanned)
	assert.Nil(t, env.node(t, c.root).DateStart, "no child has dates, so none are invented")
}

func TestWbsService_UpdateTask(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "UPD01")
	a := env.addTask(t, c.activity, "A", testutil.WithHours(10),
		testutil.WithDates(testutil.Date(2025, 2, 3), testutil.Date(2025, 2, 7)))
	env.addTask(t, c.activity, "B", testutil.WithHours(5))

	node, res, err := env.Wbs.UpdateTask(ctx, domain.LeafMutation{
		NodeID:       a,
		HoursPlanned: ptrFloat(30),
		DateFinish:   testutil.DatePtr(2025, 2, 21),
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, *node.HoursPlanned)
	assert.Equal(t, rollup.StopRoot, res.Stopped)
	assert.Len(t, res.Updated, 4)

	root := env.node(t, c.root)
	assert.Equal(t, 35.0, *root.HoursPlanned)
	assert.Equal(t, testutil.Date(2025, 2, 21), *root.DateFinish)

	_, _, err = env.Wbs.UpdateTask(ctx, domain.LeafMutation{NodeID: a, ClearDates: true})
	require.NoError(t, err)
	assert.Nil(t, env.node(t, c.root).DateStart)
}

func TestWbsService_UpdateTaskValidation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "VAL01")
	a := env.addTask(t, c.activity, "A", testutil.WithHours(10))

	_, _, err := env.Wbs.UpdateTask(ctx, domain.LeafMutation{NodeID: a, HoursPlanned: ptrFloat(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = env.Wbs.UpdateTask(ctx, domain.LeafMutation{
		NodeID:     a,
		DateStart:  testutil.DatePtr(2025, 3, 10),
		DateFinish: testutil.DatePtr(2025, 3, 1),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 10.0, *env.node(t, a).HoursPlanned, "rejected mutation leaves the task untouched")

	_, _, err = env.Wbs.UpdateTask(ctx, domain.LeafMutation{NodeID: c.activity, HoursPlanned: ptrFloat(1)})
	assert.ErrorIs(t, err, domain.ErrValidation, "non-leaf nodes are owned by the rollup")
	assert.ErrorIs(t, err, domain.ErrNotDirectlyEdited)

	_, _, err = env.Wbs.UpdateTask(ctx, domain.LeafMutation{NodeID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWbsService_UpdateTaskRejectsNonFiniteHours(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "NAN01")
	a := env.addTask(t, c.activity, "A", testutil.WithHours(10))
	env.addTask(t, c.activity, "B", testutil.WithHours(5))
	require.Equal(t, 15.0, *env.node(t, c.root).HoursPlanned)

	for _, h := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, _, err := env.Wbs.UpdateTask(ctx, domain.LeafMutation{NodeID: a, HoursPlanned: ptrFloat(h)})
		require.ErrorIs(t, err, domain.ErrValidation, "hours %v", h)
		assert.Contains(t, err.Error(), "finite")

		require.NotNil(t, env.node(t, a).HoursPlanned, "hours %v", h)
		assert.Equal(t, 10.0, *env.node(t, a).HoursPlanned)
		assert.Equal(t, 15.0, *env.node(t, c.root).HoursPlanned, "root keeps both tasks")
	}
}

func TestWbsService_DeleteTaskRecomputesFormerAncestors(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "RMV01")
	a := env.addTask(t, c.activity, "A", testutil.WithHours(10))
	env.addTask(t, c.activity, "B", testutil.WithHours(5))

	res, err := env.Wbs.DeleteTask(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, rollup.StopRoot, res.Stopped)
	assert.Equal(t, 5.0, *env.node(t, c.root).HoursPlanned)

	_, err = env.Wbs.DeleteTask(ctx, c.activity)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrNotDirectlyEdited)
}

func TestWbsService_DeleteLastTaskLeavesStaleParent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "STL01")
	a := env.addTask(t, c.activity, "A", testutil.WithHours(10))

	_, err := env.Wbs.DeleteTask(ctx, a)
	require.NoError(t, err)

	// No child contributes any more, so the activity keeps its last rollup.
	assert.Equal(t, 10.0, *env.node(t, c.activity).HoursPlanned)
}

func TestWbsService_CreateNodeEnforcesNesting(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "NST01")

	err := env.Wbs.CreateNode(ctx, &domain.WbsNode{ParentID: &c.root, Kind: domain.NodeActivity, Title: "Skip"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.Wbs.CreateTask(ctx, &domain.WbsNode{ParentID: &c.phase, Title: "Too high"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = env.Wbs.CreateNode(ctx, &domain.WbsNode{ParentID: &c.activity, Kind: domain.NodeTask, Title: "Task"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	missing := "ghost"
	err = env.Wbs.CreateNode(ctx, &domain.WbsNode{ParentID: &missing, Kind: domain.NodePhase, Title: "Orphan"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWbsService_TreeAndChildren(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "TRE01")
	env.addTask(t, c.activity, "Second", testutil.WithOrderIndex(2))
	env.addTask(t, c.activity, "First", testutil.WithOrderIndex(1))

	tree, err := env.Wbs.Tree(ctx, c.project.ID)
	require.NoError(t, err)
	assert.Equal(t, c.root, tree.Node.ID)

	var titles []string
	depths := map[string]int{}
	tree.Walk(func(n *TreeNode, depth int) {
		titles = append(titles, n.Node.Title)
		depths[n.Node.Title] = depth
	})
	assert.Equal(t, []string{"Project TRE01", "Phase", "Package", "Activity", "First", "Second"}, titles)
	assert.Equal(t, 4, depths["First"])

	children, err := env.Wbs.ListChildren(ctx, c.activity)
	require.NoError(t, err)
	assert.Len(t, children, 2)

	_, err = env.Wbs.Tree(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWbsService_RecalcRepairsStaleValues(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "REC01")
	env.addTask(t, c.activity, "A", testutil.WithHours(8))

	_, err := env.db.ExecContext(ctx, `UPDATE wbs_nodes SET hours_planned = 999 WHERE id = ?`, c.phase)
	require.NoError(t, err)

	res, err := env.Wbs.Recalc(ctx, c.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Visited)
	assert.Equal(t, 8.0, *env.node(t, c.phase).HoursPlanned)
}

func TestWbsService_RollbackWhenAscentFails(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "RBK01")
	a := env.addTask(t, c.activity, "A", testutil.WithHours(10))

	// Exec #1 = task update, #2 = activity rollup.
	env.wire(&testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: fmt.Errorf("injected rollup failure")})

	_, _, err := env.Wbs.UpdateTask(ctx, domain.LeafMutation{NodeID: a, HoursPlanned: ptrFloat(50)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected rollup failure")

	assert.Equal(t, 10.0, *env.node(t, a).HoursPlanned, "leaf write rolled back with the ascent")
	assert.Equal(t, 10.0, *env.node(t, c.root).HoursPlanned)
}

func TestWbsService_EmitsUseCaseEvents(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "OBS01")
	_, _, err := env.Wbs.UpdateTask(ctx, domain.LeafMutation{NodeID: c.activity})
	require.Error(t, err)

	events := env.obs.Events()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "update-task", last.Name)
	assert.False(t, last.Success)
	assert.True(t, errors.Is(last.Err, domain.ErrValidation))
}

// Random leaf mutations over a small tree must always leave every parent
// equal to the aggregate of its children.
func TestWbsService_RollupInvariantUnderRandomMutations(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	c := env.newChain(t, "RND01")
	act2 := env.addNode(t, c.pkg, domain.NodeActivity, "Activity 2")

	rng := rand.New(rand.NewSource(7))
	var tasks []string
	for i := 0; i < 6; i++ {
		parent := c.activity
		if i%2 == 1 {
			parent = act2
		}
		tasks = append(tasks, env.addTask(t, parent, fmt.Sprintf("T%d", i), testutil.WithHours(float64(i))))
	}

	for step := 0; step < 40; step++ {
		id := tasks[rng.Intn(len(tasks))]
		m := domain.LeafMutation{NodeID: id}
		switch rng.Intn(3) {
		case 0:
			m.HoursPlanned = ptrFloat(float64(rng.Intn(100)))
		case 1:
			start := testutil.Date(2025, 1, 1+rng.Intn(20))
			finish := start.AddDate(0, 0, rng.Intn(30))
			m.DateStart, m.DateFinish = &start, &finish
		default:
			m.ClearHours = true
		}
		_, _, err := env.Wbs.UpdateTask(ctx, m)
		require.NoError(t, err)

		for _, parentID := range []string{c.activity, act2, c.pkg, c.phase, c.root} {
			children, err := env.nodes.ListChildren(ctx, parentID)
			require.NoError(t, err)
			agg := rollup.AggregateChildren(children)
			if !agg.Contributed {
				continue
			}
			parent := env.node(t, parentID)
			assert.Equal(t, agg.HoursPlanned, parent.HoursPlanned, "step %d hours of %s", step, parent.Title)
			assert.Equal(t, agg.DateStart, parent.DateStart, "step %d start of %s", step, parent.Title)
			assert.Equal(t, agg.DateFinish, parent.DateFinish, "step %d finish of %s", step, parent.Title)
		}
	}
}
