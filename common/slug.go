package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const SlugMaxLen = 100

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into [a-z0-9-], stripping diacritics and
// collapsing separators. Empty results become "item".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > SlugMaxLen {
		s = strings.Trim(string([]rune(s)[:SlugMaxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// UniqueSlug returns base, or base with a "-2", "-3", ... suffix, so that no
// row of table has it in column. scope may be nil; when set it narrows the
// rows checked (e.g. to exclude the row being updated).
func UniqueSlug(db *gorm.DB, table, column, base string, scope func(*gorm.DB) *gorm.DB) (string, error) {
	slug := base
	for i := 2; ; i++ {
		q := db.Session(&gorm.Session{NewDB: true}).Table(table)
		if scope != nil {
			q = scope(q)
		}

		var count int64
		err := q.Where(fmt.Sprintf("%s = ?", column), slug).Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", slug, err)
		}
		if count == 0 {
			return slug, nil
		}

		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if keep := SlugMaxLen - len(suffix); len(trimmed) > keep {
			trimmed = strings.Trim(trimmed[:keep], "-")
		}
		slug = trimmed + suffix
	}
}
