package jellyfin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/sirupsen/logrus"
)

// User is a Jellyfin user account
type User struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Item is a library item as seen by one user
type Item struct {
	ID          string            `json:"Id"`
	Name        string            `json:"Name"`
	Path        string            `json:"Path"`
	Type        string            `json:"Type"`
	ProviderIDs map[string]string `json:"ProviderIds"`
	UserData    struct {
		Played bool `json:"Played"`
	} `json:"UserData"`
}

type itemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}

// ToPlayerItem converts the API record, keeping only the provider ids used for matching
func (i Item) ToPlayerItem() models.PlayerItem {
	return models.PlayerItem{
		ID:   i.ID,
		Name: i.Name,
		Path: i.Path,
		Type: models.ItemType(i.Type),
		ProviderIDs: models.ExternalIDs{
			TMDB: providerID(i.ProviderIDs, "Tmdb"),
			IMDB: providerID(i.ProviderIDs, "Imdb"),
			TVDB: providerID(i.ProviderIDs, "Tvdb"),
		},
		Played: i.UserData.Played,
	}
}

// providerID looks the key up exactly first, then case-insensitively
func providerID(ids map[string]string, key string) string {
	if v, ok := ids[key]; ok {
		return v
	}
	for k, v := range ids {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// GetUsers lists all Jellyfin users
func (c *Client) GetUsers(ctx context.Context) ([]models.PlayerUser, error) {
	var users []User
	if err := c.doRequest(ctx, "/Users", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	result := make([]models.PlayerUser, 0, len(users))
	for _, u := range users {
		result = append(result, models.PlayerUser{ID: u.ID, Name: u.Name})
	}
	return result, nil
}

// GetUserItems lists every movie, series and episode with the user's played state
func (c *Client) GetUserItems(ctx context.Context, userID string) ([]models.PlayerItem, error) {
	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("IncludeItemTypes", "Movie,Episode,Series")
	params.Set("Fields", "Path,ProviderIds,UserData")

	var resp itemsResponse
	path := "/Users/" + url.PathEscape(userID) + "/Items"
	if err := c.doRequest(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get items for user %s: %w", userID, err)
	}

	items := make([]models.PlayerItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, item.ToPlayerItem())
	}
	return items, nil
}

// GetPlayState returns one item list per user. A user whose items cannot be
// fetched is skipped; only a failure to list users is an error.
func (c *Client) GetPlayState(ctx context.Context) ([][]models.PlayerItem, error) {
	users, err := c.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	perUser := make([][]models.PlayerItem, 0, len(users))
	for _, user := range users {
		items, err := c.GetUserItems(ctx, user.ID)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"user_id": user.ID,
				"user":    user.Name,
			}).Warn("Skipping Jellyfin user")
			continue
		}
		perUser = append(perUser, items)
	}

	c.logger.WithFields(logrus.Fields{
		"users":   len(users),
		"fetched": len(perUser),
	}).Debug("Fetched Jellyfin play state")
	return perUser, nil
}
