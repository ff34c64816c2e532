package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Route forwards requests matching a path prefix to a backing service.
type Route struct {
	// Name identifies the route in logs.
	Name string `yaml:"name"`

	// Prefix is the path prefix to match, e.g. /account.
	Prefix string `yaml:"prefix"`

	// Target is the base URL of the backing service.
	Target string `yaml:"target"`

	// StripPrefix removes the matched prefix before forwarding.
	StripPrefix bool `yaml:"strip_prefix"`
}

// Config is the gateway route table.
type Config struct {
	Routes []Route `yaml:"routes"`
}

// LoadConfig reads the route table from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading gateway config: %w", err)
	}
	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing gateway config: %w", err)
	}
	if len(cfg.Routes) == 0 {
		return nil, fmt.Errorf("gateway config declares no routes")
	}
	return cfg, nil
}

// NewProxy builds a reverse proxy from the route table. Longer prefixes win
// when several routes match.
func NewProxy(cfg *Config) (*Proxy, error) {
	routes := make([]compiledRoute, 0, len(cfg.Routes))
	for _, route := range cfg.Routes {
		target, err := url.Parse(route.Target)
		if err != nil {
			return nil, fmt.Errorf("invalid target for route %q: %w", route.Name, err)
		}
		if route.Prefix == "" || !strings.HasPrefix(route.Prefix, "/") {
			return nil, fmt.Errorf("route %q must declare a prefix starting with /", route.Name)
		}
		routes = append(routes, compiledRoute{
			route:   route,
			forward: httputil.NewSingleHostReverseProxy(target),
		})
	}
	sort.Slice(routes, func(i, j int) bool {
		return len(routes[i].route.Prefix) > len(routes[j].route.Prefix)
	})
	return &Proxy{routes: routes}, nil
}

// Proxy routes incoming requests to backing services by path prefix.
type Proxy struct {
	routes []compiledRoute
}

type compiledRoute struct {
	route   Route
	forward *httputil.ReverseProxy
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, candidate := range p.routes {
		if !matchesPrefix(r.URL.Path, candidate.route.Prefix) {
			continue
		}
		if candidate.route.StripPrefix {
			r.URL.Path = strings.TrimPrefix(r.URL.Path, candidate.route.Prefix)
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
		}
		log.
			WithField("route", candidate.route.Name).
			WithField("path", r.URL.Path).
			Debug("forwarding request")
		candidate.forward.ServeHTTP(w, r)
		return
	}
	http.Error(w, "no route", http.StatusBadGateway)
}

// matchesPrefix matches whole path segments, so /account never captures
// /accounting.
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || strings.HasPrefix(rest, "/")
}

// Router wraps the proxy in a gin engine with recovery and CORS attached.
func (p *Proxy) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.NoRoute(gin.WrapH(p))
	return router
}
