package api

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
)

// accountService implements app.AccountService.
type accountService struct {
	client *Client
}

// NewAccountService creates an AccountService.
func NewAccountService(client *Client) app.AccountService {
	return &accountService{client: client}
}

func (s *accountService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	var w wireProfile
	if err := s.client.Get(ctx, "/user/profile/"+url.PathEscape(userID), &w); err != nil {
		return domain.Profile{}, fmt.Errorf("fetching profile %s: %w", userID, err)
	}
	return w.toDomain(), nil
}

type profileUpdate struct {
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
}

func (s *accountService) UpdateProfile(ctx context.Context, userID string, u app.ProfileUpdate) (domain.Profile, error) {
	if strings.TrimSpace(u.Name) == "" {
		return domain.Profile{}, fmt.Errorf("updating profile: %w", domain.Required("name"))
	}
	var w wireProfile
	in := profileUpdate{Name: strings.TrimSpace(u.Name), Bio: u.Bio, Skills: u.Skills}
	if err := s.client.Put(ctx, "/user/profile/"+url.PathEscape(userID), in, &w); err != nil {
		return domain.Profile{}, fmt.Errorf("updating profile: %w", err)
	}
	return w.toDomain(), nil
}

func (s *accountService) follow(ctx context.Context, verb, userID, followerID string) error {
	if followerID == "" {
		return fmt.Errorf("%s %s: %w", verb, userID, domain.ErrUnauthenticated)
	}
	path := fmt.Sprintf("/user/%s/%s?followerId=%s", url.PathEscape(userID), verb, url.QueryEscape(followerID))
	if err := s.client.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("%s %s: %w", verb, userID, err)
	}
	return nil
}

func (s *accountService) Follow(ctx context.Context, userID, followerID string) error {
	return s.follow(ctx, "follow", userID, followerID)
}

func (s *accountService) Unfollow(ctx context.Context, userID, followerID string) error {
	return s.follow(ctx, "unfollow", userID, followerID)
}

func (s *accountService) UsersByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}
	var ws []wireProfile
	if err := s.client.Get(ctx, "/user/batch?ids="+url.QueryEscape(strings.Join(unique, ",")), &ws); err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	out := make([]domain.Profile, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (s *accountService) TotalPostCount(ctx context.Context, userID string) (int, error) {
	var resp struct {
		TotalPosts int `json:"totalPosts"`
	}
	if err := s.client.Get(ctx, "/user/"+url.PathEscape(userID)+"/post/count", &resp); err != nil {
		return 0, fmt.Errorf("counting posts for %s: %w", userID, err)
	}
	return resp.TotalPosts, nil
}
