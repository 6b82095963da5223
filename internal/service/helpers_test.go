package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/planline/internal/db"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/repository"
	"github.com/alexanderramin/planline/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db       *sql.DB
	uow      db.UnitOfWork
	obs      *RecordingObserver
	projects repository.ProjectRepo
	nodes    repository.WbsNodeRepo
	edges    repository.DependencyRepo
	costs    repository.TaskCostRepo
	claims   repository.ClaimRepo

	Projects  ProjectService
	Wbs       WbsService
	Deps      DependencyService
	Valuation ValuationService
	Curve     CurveService
	Import    ImportService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		obs:      &RecordingObserver{},
		projects: repository.NewSQLiteProjectRepo(database),
		nodes:    repository.NewSQLiteWbsNodeRepo(database),
		edges:    repository.NewSQLiteDependencyRepo(database),
		costs:    repository.NewSQLiteTaskCostRepo(database),
		claims:   repository.NewSQLiteClaimRepo(database),
	}
	env.wire(env.uow)
	return env
}

// wire (re)builds the services on top of uow, so a test can swap in a
// failing unit of work.
func (e *testEnv) wire(uow db.UnitOfWork) {
	opts := []Option{WithObserver(e.obs)}
	e.Projects = NewProjectService(e.projects, uow, opts...)
	e.Wbs = NewWbsService(e.nodes, e.projects, uow, opts...)
	e.Deps = NewDependencyService(e.edges, e.nodes, uow, opts...)
	e.Valuation = NewValuationService(e.costs, e.claims, e.nodes, uow, opts...)
	e.Curve = NewCurveService(e.projects, e.costs, e.claims, opts...)
	e.Import = NewImportService(e.projects, uow, opts...)
}

// chain is a project with one branch down to the activity level.
type chain struct {
	project  *domain.Project
	root     string
	phase    string
	pkg      string
	activity string
}

func (e *testEnv) newChain(t *testing.T, shortID string) chain {
	t.Helper()
	ctx := context.Background()
	p, err := e.Projects.Create(ctx, "Project "+shortID, shortID)
	require.NoError(t, err)
	c := chain{project: p, root: p.RootNodeID}
	c.phase = e.addNode(t, c.root, domain.NodePhase, "Phase")
	c.pkg = e.addNode(t, c.phase, domain.NodeWorkPackage, "Package")
	c.activity = e.addNode(t, c.pkg, domain.NodeActivity, "Activity")
	return c
}

func (e *testEnv) addNode(t *testing.T, parentID string, kind domain.NodeKind, title string) string {
	t.Helper()
	n := &domain.WbsNode{ParentID: &parentID, Kind: kind, Title: title}
	require.NoError(t, e.Wbs.CreateNode(context.Background(), n))
	return n.ID
}

func (e *testEnv) addTask(t *testing.T, parentID, title string, opts ...testutil.NodeOption) string {
	t.Helper()
	n := testutil.NewTestNode("", title, append([]testutil.NodeOption{testutil.WithParentID(parentID), testutil.WithNodeID("")}, opts...)...)
	_, err := e.Wbs.CreateTask(context.Background(), n)
	require.NoError(t, err)
	return n.ID
}

func (e *testEnv) node(t *testing.T, id string) *domain.WbsNode {
	t.Helper()
	n, err := e.nodes.GetByID(context.Background(), id)
	require.NoError(t, err)
	return n
}

func ptrStr(s string) *string     { return &s }
func ptrFloat(f float64) *float64 { return &f }
