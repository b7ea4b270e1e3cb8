package handlers

import (
	"fmt"
	"strings"

	"github.com/liamwears/reelbrowser/internal/models"
)

const (
	posterPlaceholder  = "/static/placeholder.svg"
	profilePlaceholder = "/static/placeholder_person.svg"
)

// imageURL joins a TMDb image path onto base at the given size, or returns
// fallback when the path is absent.
func imageURL(base, size string, path *string, fallback string) string {
	if path == nil || *path == "" {
		return fallback
	}
	return strings.TrimRight(base, "/") + "/" + size + *path
}

// ReleaseYear returns the four-digit year or N/A
func ReleaseYear(date *string) string {
	if date == nil || len(*date) < 4 {
		return "N/A"
	}
	return (*date)[:4]
}

// Rating treats zero like missing, TMDb reports 0 for unrated titles
func Rating(v *float64) string {
	if v == nil || *v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

func runtimeLabel(minutes *int) string {
	if minutes == nil || *minutes == 0 {
		return "未知时长"
	}
	return fmt.Sprintf("%d 分钟", *minutes)
}

func genreList(genres []models.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	if len(names) == 0 {
		return "未知类型"
	}
	return strings.Join(names, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
