package service

import (
	"strings"

	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
)

func normalizePage(p repository.Page) repository.Page {
	limit := p.Limit
	offset := p.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

func normalizePosition(pos string) model.Position {
	return model.Position(strings.ToLower(strings.TrimSpace(pos)))
}

func normalizeShortCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

const (
	// Regulation handball: 2x30 minutes is the default when a match is created
	// without an explicit duration.
	defaultMatchDurationSeconds = 3600
	maxJerseyNumber             = 99
)
