package domain

import (
	"regexp"
	"strings"
	"time"
)

// Project short ids look like BRG01 or TUNL0234.
var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project owns exactly one WBS tree; RootNodeID is its level-1 node and the
// project id doubles as the lock scope for every edit inside that tree.
type Project struct {
	ID         string
	ShortID    string
	Name       string
	RootNodeID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewProject trims and upper-cases the inputs, validates them and returns the
// project with the root node that carries its rollup totals.
func NewProject(id, rootID, name, shortID string, now time.Time) (*Project, *WbsNode, error) {
	p := &Project{
		ID:         id,
		ShortID:    strings.ToUpper(strings.TrimSpace(shortID)),
		Name:       strings.TrimSpace(name),
		RootNodeID: rootID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.Name == "" {
		return nil, nil, validationf("name", "project name is required")
	}
	if err := p.ValidateShortID(); err != nil {
		return nil, nil, err
	}
	root := &WbsNode{
		ID:        rootID,
		ProjectID: id,
		Kind:      NodeProject,
		Title:     p.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return p, root, nil
}

// ValidateShortID requires 3-6 uppercase letters followed by 2-4 digits.
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return validationf("short_id", "short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return validationf("short_id", "%q must be 3-6 uppercase letters followed by 2-4 digits (e.g. BRG01)", p.ShortID)
	}
	return nil
}

// DisplayID prefers the short id and falls back to the first 8 characters of
// the uuid for projects created without one.
func (p *Project) DisplayID() string {
	switch {
	case p.ShortID != "":
		return p.ShortID
	case len(p.ID) > 8:
		return p.ID[:8]
	default:
		return p.ID
	}
}
