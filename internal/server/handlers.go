package server

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/matzehuels/lockgraph/internal/config"
	"github.com/matzehuels/lockgraph/pkg/buildinfo"
	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/pipeline"
	"github.com/matzehuels/lockgraph/pkg/render"
	"github.com/matzehuels/lockgraph/pkg/source"
)

// GraphResponse is the JSON body of the graph routes.
type GraphResponse struct {
	RunID        string            `json:"run_id"`
	Package      string            `json:"package"`
	Version      string            `json:"version"`
	Dependencies []deps.Dependency `json:"dependencies"`
	Graph        graph.Description `json:"graph"`
	DOT          string            `json:"dot"`
}

// PackageEntry is one element of the packages route.
type PackageEntry struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Dependencies []string `json:"dependencies"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleGraphJSON(w http.ResponseWriter, r *http.Request) {
	src, err := s.sourceFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.runJSON(w, r, src)
}

func (s *Server) handleGraphBody(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	s.runJSON(w, r, source.NewLockText("request body", string(body)))
}

func (s *Server) runJSON(w http.ResponseWriter, r *http.Request, src source.Source) {
	req := graphRequest(r)
	req.Format = string(render.DOT)

	res, err := s.cfg.Runner.Run(r.Context(), src, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GraphResponse{
		RunID:        res.RunID,
		Package:      req.Package,
		Version:      res.Version,
		Dependencies: res.Dependencies,
		Graph:        res.Graph,
		DOT:          res.DOT,
	})
}

func (s *Server) handleGraphArtifact(format string) http.HandlerFunc {
	f := render.Format(format)
	return func(w http.ResponseWriter, r *http.Request) {
		src, err := s.sourceFor(r)
		if err != nil {
			writeError(w, err)
			return
		}
		req := graphRequest(r)
		req.Format = format

		res, err := s.cfg.Runner.Run(r.Context(), src, req)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("X-Run-ID", res.RunID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Artifact)
	}
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	src, err := s.sourceFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	lock, ok := src.(*source.Lock)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "mode %q has no package list", src.Name()))
		return
	}
	m, err := lock.Mapping(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]PackageEntry, 0, m.Len())
	for _, e := range m.Entries() {
		out = append(out, PackageEntry{Name: e.Name, Version: e.Version, Dependencies: e.Dependencies})
	}
	writeJSON(w, http.StatusOK, out)
}

// graphRequest reads the pipeline request from query parameters.
func graphRequest(r *http.Request) pipeline.Request {
	q := r.URL.Query()
	return pipeline.Request{
		Package:      q.Get("package"),
		Version:      q.Get("version"),
		Filter:       q.Get("filter"),
		Detailed:     boolParam(q.Get("detailed")),
		SkipOptional: boolParam(q.Get("skip_optional")),
		Refresh:      boolParam(q.Get("refresh")),
	}
}

// sourceFor picks the source named by the mode and source parameters.
// Local paths must be relative and stay under the lock root. Lockfile URLs
// must be the configured source or on the allowlist. The registry always
// uses the configured API root; a source parameter is ignored.
func (s *Server) sourceFor(r *http.Request) (source.Source, error) {
	q := r.URL.Query()
	mode, location := q.Get("mode"), q.Get("source")
	if mode == "" {
		mode = s.cfg.DefaultMode
		if location == "" {
			location = s.cfg.DefaultSource
		}
	}
	opts := deps.Options{
		Refresh:      boolParam(q.Get("refresh")),
		SkipOptional: boolParam(q.Get("skip_optional")),
	}

	switch mode {
	case config.ModeFile, config.ModeManifest:
		if location == "" {
			location = config.DefaultLockfile
			if mode == config.ModeManifest {
				location = config.DefaultManifest
			}
		}
		if err := errors.ValidatePath(location); err != nil {
			return nil, err
		}
		location = filepath.Join(s.cfg.LockRoot, filepath.FromSlash(location))
	case config.ModeURL:
		if !s.urlAllowed(location) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "source %q is not an allowed lockfile URL", location)
		}
	case config.ModeRegistry:
		location = ""
		if s.cfg.DefaultMode == config.ModeRegistry {
			location = s.cfg.DefaultSource
		}
	}
	return s.cfg.Sources.Open(mode, location, opts)
}

// urlAllowed reports whether u is the configured URL source or on the
// allowlist. Comparison is exact.
func (s *Server) urlAllowed(u string) bool {
	if u == "" {
		return false
	}
	if s.cfg.DefaultMode == config.ModeURL && u == s.cfg.DefaultSource {
		return true
	}
	return slices.Contains(s.cfg.AllowedURLs, u)
}

func boolParam(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
