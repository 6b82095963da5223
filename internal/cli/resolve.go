package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/service"
)

// resolveProjectID accepts a short ID (case-insensitive), a full UUID or a
// unique UUID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}
	p, err := app.Projects.Get(ctx, input)
	if err == nil {
		return p.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return matchPrefix("project", input, ids)
}

// resolveNodeID accepts a full node id, or a unique id prefix when the
// project is known.
func resolveNodeID(ctx context.Context, app *App, input, projectRef string) (string, error) {
	n, err := app.Wbs.GetNode(ctx, input)
	if err == nil {
		return n.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) || projectRef == "" {
		return "", err
	}
	projectID, err := resolveProjectID(ctx, app, projectRef)
	if err != nil {
		return "", err
	}
	tree, err := app.Wbs.Tree(ctx, projectID)
	if err != nil {
		return "", err
	}
	var ids []string
	tree.Walk(func(t *service.TreeNode, _ int) {
		ids = append(ids, t.Node.ID)
	})
	return matchPrefix("node", input, ids)
}

// resolveEdgeID accepts a full edge id, or a unique id prefix when the
// project is known.
func resolveEdgeID(ctx context.Context, app *App, input, projectRef string) (string, error) {
	e, err := app.Deps.GetEdge(ctx, input)
	if err == nil {
		return e.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) || projectRef == "" {
		return "", err
	}
	projectID, err := resolveProjectID(ctx, app, projectRef)
	if err != nil {
		return "", err
	}
	edges, err := app.Deps.ListEdges(ctx, projectID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ID)
	}
	return matchPrefix("dependency", input, ids)
}

func matchPrefix(entity, input string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", &domain.NotFoundError{Entity: entity, ID: input}
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", entity, input, len(matches))
	}
}

// taskTitles maps every node id of a project to its title.
func taskTitles(ctx context.Context, app *App, projectID string) (map[string]string, error) {
	tree, err := app.Wbs.Tree(ctx, projectID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string)
	tree.Walk(func(t *service.TreeNode, _ int) {
		titles[t.Node.ID] = t.Node.Title
	})
	return titles, nil
}
