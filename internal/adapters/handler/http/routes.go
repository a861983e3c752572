package http

import (
	"fmt"
	"regexp"
)

// Route names accepted by Reverse.
const (
	RouteIndex        = "polls:index"
	RouteDetail       = "polls:detail"
	RouteResults      = "polls:results"
	RouteVote         = "polls:vote"
	RouteLogin        = "accounts:login"
	RouteLogout       = "accounts:logout"
	RouteRefresh      = "accounts:refresh"
	RouteAPIQuestions = "api:questions"
	RouteAPIQuestion  = "api:question"
	RouteAPIMe        = "api:me"
)

var routes = map[string]string{
	RouteIndex:        "/polls/",
	RouteDetail:       "/polls/{id}/",
	RouteResults:      "/polls/{id}/results/",
	RouteVote:         "/polls/{id}/vote/",
	RouteLogin:        "/accounts/login/",
	RouteLogout:       "/accounts/logout/",
	RouteRefresh:      "/accounts/refresh/",
	RouteAPIQuestions: "/api/questions",
	RouteAPIQuestion:  "/api/questions/{id}",
	RouteAPIMe:        "/api/me",
}

var routeParam = regexp.MustCompile(`\{[^}]+\}`)

// Reverse resolves a route name to a path, filling URL parameters in order.
func Reverse(name string, params ...string) (string, error) {
	pattern, ok := routes[name]
	if !ok {
		return "", fmt.Errorf("no route named %q", name)
	}

	want := len(routeParam.FindAllString(pattern, -1))
	if want != len(params) {
		return "", fmt.Errorf("route %q takes %d parameters, got %d", name, want, len(params))
	}

	i := 0
	return routeParam.ReplaceAllStringFunc(pattern, func(string) string {
		p := params[i]
		i++
		return p
	}), nil
}

// MustReverse is Reverse for route names known at compile time.
func MustReverse(name string, params ...string) string {
	path, err := Reverse(name, params...)
	if err != nil {
		panic(err)
	}
	return path
}

func pattern(name string) string {
	return routes[name]
}
