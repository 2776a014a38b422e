package seolint

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

func (f *Fetcher) getRobotsData(ctx context.Context, u *url.URL) (data *robotstxt.RobotsData, err error) {
	robotsURL := url.URL{Scheme: u.Scheme, Host: u.Host, User: u.User, Path: "/robots.txt"}
	req, errRequest := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if errRequest != nil {
		return nil, errRequest
	}
	req.Header.Set("User-Agent", f.agent)
	resp, errGet := f.client.Do(req)
	if errGet != nil {
		return nil, errGet
	}
	defer resp.Body.Close()
	data, errFromResponse := robotstxt.FromResponse(resp)
	if errFromResponse != nil {
		return nil, errFromResponse
	}
	return data, nil
}

func (f *Fetcher) checkRobots(ctx context.Context, u *url.URL) error {
	robotsData, errRobots := f.getRobotsData(ctx, u)
	if errRobots != nil {
		return fmt.Errorf("could not load robots.txt: %w", errRobots)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if !robotsData.FindGroup(f.agent).Test(path) {
		return fmt.Errorf("%w: %s (you can either ignore robots or try as a different user agent)", ErrRobotsForbidden, path)
	}
	return nil
}
