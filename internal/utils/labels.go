package utils

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/amaumene/mediacleanerr/internal/models"
)

// Matches S01, s1, S01E02 as a standalone token (Show.S01E02.1080p, Show_S02, "Show S3")
var seasonRegex = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])s(\d{1,3})(?:e(\d{1,4}))?(?:[^0-9]|$)`)

// SeasonLabelFromName extracts a season/episode label from a release name.
// Returns "" if the name carries no season token.
func SeasonLabelFromName(name string) string {
	matches := seasonRegex.FindStringSubmatch(name)
	if len(matches) < 2 {
		return ""
	}

	season, err := strconv.Atoi(matches[1])
	if err != nil {
		return ""
	}
	if matches[2] == "" {
		return fmt.Sprintf("S%02d", season)
	}

	episode, err := strconv.Atoi(matches[2])
	if err != nil {
		return fmt.Sprintf("S%02d", season)
	}
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// SeasonLabelFromEpisodes derives a label from the episodes a download covered:
// one episode gives S01E02, several episodes of one season give S01,
// several seasons give S01-S03. Returns "" for no episodes.
func SeasonLabelFromEpisodes(episodes []models.Episode) string {
	if len(episodes) == 0 {
		return ""
	}

	seasons := make(map[int]map[int]struct{})
	for _, ep := range episodes {
		if seasons[ep.Season] == nil {
			seasons[ep.Season] = make(map[int]struct{})
		}
		seasons[ep.Season][ep.Number] = struct{}{}
	}

	numbers := make([]int, 0, len(seasons))
	for season := range seasons {
		numbers = append(numbers, season)
	}
	sort.Ints(numbers)

	if len(numbers) > 1 {
		return fmt.Sprintf("S%02d-S%02d", numbers[0], numbers[len(numbers)-1])
	}

	season := numbers[0]
	if len(seasons[season]) == 1 {
		for number := range seasons[season] {
			return fmt.Sprintf("S%02dE%02d", season, number)
		}
	}
	return fmt.Sprintf("S%02d", season)
}
