// Package services holds the mutation components of the engagement core.
// Each operation runs one unit of work against the store and publishes its
// domain event only after the unit commits.
package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
)

// PageLimits bounds listing page sizes.
type PageLimits struct {
	Default int
	Max     int
}

// DefaultPageLimits is used when a service is built with a zero PageLimits.
var DefaultPageLimits = PageLimits{Default: 10, Max: 50}

// maxPage keeps (page-1)*limit far from integer overflow.
const maxPage = 10000

func (l PageLimits) normalize(page, limit int) (int, int) {
	if l.Default <= 0 {
		l = DefaultPageLimits
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = l.Default
	}
	if limit > l.Max {
		limit = l.Max
	}
	return page, limit
}

// notFound converts the repository sentinel into a NOT_FOUND error and
// passes everything else through.
func notFound(err error, resource, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

const maxCommentLength = 1000

func cleanCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", models.NewValidationError("Comment content must be at most 1000 characters")
	}
	return content, nil
}
