package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type Node struct {
	URL     string            `yaml:"url"               validate:"required,url"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Query   map[string]string `yaml:"query,omitempty"`
}

// FinalizeNodes substitutes ${VAR} in URLs, headers and query values and folds
// the query map into the URL.
func (e *EndpointConfig) FinalizeNodes(name string) error {
	nodes := make([]Node, len(e.Nodes))
	for i, n := range e.Nodes {
		headers := make(map[string]string, len(n.Headers))
		for k, v := range n.Headers {
			headers[strings.ToLower(k)] = substituteEnvVars(v)
		}
		n.Headers = headers

		n.URL = strings.TrimSuffix(substituteEnvVars(n.URL), "/")
		u, err := url.Parse(n.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: invalid node url: %q", name, n.URL)
		}

		if len(n.Query) > 0 {
			q := u.Query()
			for k, v := range n.Query {
				q.Set(k, substituteEnvVars(v))
			}
			u.RawQuery = q.Encode()
			n.URL = u.String()
			n.Query = nil
		}

		nodes[i] = n
	}
	e.Nodes = nodes
	return nil
}

// URLs returns the node base URLs in configuration order.
func (e EndpointConfig) URLs() []string {
	urls := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		urls[i] = n.URL
	}
	return urls
}

// Headers returns the headers configured for the node with the given URL.
func (e EndpointConfig) Headers(nodeURL string) map[string]string {
	for _, n := range e.Nodes {
		if n.URL == nodeURL {
			return n.Headers
		}
	}
	return nil
}

func substituteEnvVars(s string) string {
	if s == "" {
		return s
	}
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			break
		}
		end += start
		varName := s[start+2 : end]
		envValue := os.Getenv(varName)
		s = strings.ReplaceAll(s, "${"+varName+"}", envValue)
	}
	return s
}
