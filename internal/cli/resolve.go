package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/repository"
)

// resolveEstimateID accepts a full estimate ID or a unique ID prefix, such
// as the 8 characters shown by "estimate list".
func resolveEstimateID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("estimate ID is required")
	}
	if _, err := app.Estimates.Get(ctx, input); err == nil {
		return input, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	listings, err := app.Estimates.List(ctx, "")
	if err != nil {
		return "", err
	}
	var matches []string
	for _, l := range listings {
		if strings.HasPrefix(l.Estimate.ID, input) {
			matches = append(matches, l.Estimate.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("estimate %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("estimate prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveNodeID finds a node by full ID, code, or unique ID prefix, in
// that order.
func resolveNodeID(e *domain.Estimate, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("node ID is required")
	}
	var byCode, byPrefix []string
	found := ""
	e.Walk(func(n, _ *domain.Node, _ int) bool {
		if n.ID == input {
			found = n.ID
			return false
		}
		if n.Code != "" && n.Code == input {
			byCode = append(byCode, n.ID)
		}
		if strings.HasPrefix(n.ID, input) {
			byPrefix = append(byPrefix, n.ID)
		}
		return true
	})
	if found != "" {
		return found, nil
	}
	for _, candidates := range [][]string{byCode, byPrefix} {
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], nil
		default:
			return "", fmt.Errorf("node %q is ambiguous (%d matches)", input, len(candidates))
		}
	}
	return "", fmt.Errorf("node %q not found in estimate %s", input, e.Name)
}
