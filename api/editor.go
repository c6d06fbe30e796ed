package api

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/client"
	"github.com/meikuraledutech/pipeline/graph"
	"github.com/meikuraledutech/pipeline/ports"
)

// Editor is one editing session. HTTP handlers run concurrently, so every
// event takes mu and runs to completion before the next one starts.
type Editor struct {
	mu        sync.Mutex
	graph     *graph.Store
	submitter *client.Submitter
}

// Do runs fn with exclusive access to the session graph.
func (e *Editor) Do(fn func(g *graph.Store)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.graph)
}

type nodeView struct {
	Node  *pipeline.Node `json:"node"`
	Ports ports.Set      `json:"ports"`
}

type editorView struct {
	Nodes []*pipeline.Node     `json:"nodes"`
	Edges []*pipeline.Edge     `json:"edges"`
	Ports map[string]ports.Set `json:"ports"`
}

// dropRequest is {"nodeType": ..., "position": ...}. The whole body doubles
// as the toolbar payload handed to graph.Store.Drop.
type dropRequest struct {
	Position pipeline.Position `json:"position"`
}

type fieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

type kindView struct {
	Type          pipeline.Kind `json:"type"`
	Label         string        `json:"label"`
	Inputs        []string      `json:"inputs"`
	Outputs       []string      `json:"outputs"`
	DynamicInputs bool          `json:"dynamic_inputs"`
	Fields        []fieldView   `json:"fields"`
}

type fieldView struct {
	Name    string   `json:"name"`
	Default any      `json:"default,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

func (s *Server) getEditor(c fiber.Ctx) error {
	var view editorView
	s.editor.Do(func(g *graph.Store) {
		snap := g.Snapshot()
		view = editorView{Nodes: snap.Nodes, Edges: snap.Edges, Ports: make(map[string]ports.Set, len(snap.Nodes))}
		for _, n := range snap.Nodes {
			view.Ports[n.ID], _ = g.Ports(n.ID)
		}
	})
	return c.JSON(view)
}

func (s *Server) resetEditor(c fiber.Ctx) error {
	s.editor.Do(func(g *graph.Store) { g.Reset() })
	s.metrics.events.WithLabelValues("reset").Inc()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listKinds(c fiber.Ctx) error {
	specs := pipeline.Kinds()
	out := make([]kindView, 0, len(specs))
	for _, k := range specs {
		v := kindView{
			Type:          k.Kind,
			Label:         k.Label,
			Inputs:        k.Inputs,
			Outputs:       k.Outputs,
			DynamicInputs: k.DynamicInputs,
		}
		for _, f := range k.Fields {
			v.Fields = append(v.Fields, fieldView{Name: f.Name, Default: f.Default, Choices: f.Choices})
		}
		out = append(out, v)
	}
	return c.JSON(out)
}

func (s *Server) drop(c fiber.Ctx) error {
	var req dropRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}

	var (
		view    nodeView
		created bool
	)
	s.editor.Do(func(g *graph.Store) {
		var n *pipeline.Node
		if n, created = g.Drop(c.Body(), req.Position); created {
			view.Node = n
			view.Ports, _ = g.Ports(n.ID)
		}
	})
	if !created {
		return c.SendStatus(fiber.StatusNoContent)
	}
	s.metrics.events.WithLabelValues("drop").Inc()
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (s *Server) updateField(c fiber.Ctx) error {
	var req fieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := s.validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")
	var (
		view  nodeView
		found bool
	)
	s.editor.Do(func(g *graph.Store) {
		g.UpdateNodeField(id, req.Field, req.Value)
		if view.Node, found = g.Node(id); found {
			view.Ports, _ = g.Ports(id)
		}
	})
	s.metrics.events.WithLabelValues("field").Inc()
	if !found {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(view)
}

func (s *Server) nodeChanges(c fiber.Ctx) error {
	var changes []pipeline.NodeChange
	if err := c.Bind().JSON(&changes); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}
	s.editor.Do(func(g *graph.Store) { g.ApplyNodeChanges(changes) })
	s.metrics.events.WithLabelValues("node_changes").Inc()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) edgeChanges(c fiber.Ctx) error {
	var changes []pipeline.EdgeChange
	if err := c.Bind().JSON(&changes); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}
	s.editor.Do(func(g *graph.Store) { g.ApplyEdgeChanges(changes) })
	s.metrics.events.WithLabelValues("edge_changes").Inc()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) connect(c fiber.Ctx) error {
	var conn pipeline.Connection
	if err := c.Bind().JSON(&conn); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}
	var e *pipeline.Edge
	s.editor.Do(func(g *graph.Store) { e = g.Connect(conn) })
	s.metrics.events.WithLabelValues("connect").Inc()
	return c.Status(fiber.StatusCreated).JSON(e)
}

// submit snapshots the session graph and posts it without holding the
// session lock; edits made while the request is in flight are not part of it.
func (s *Server) submit(c fiber.Ctx) error {
	if s.editor.submitter == nil {
		return errorJSON(c, fiber.StatusNotImplemented, "no analyzer configured")
	}

	var snap pipeline.Pipeline
	s.editor.Do(func(g *graph.Store) { snap = g.Snapshot() })

	a, err := s.editor.submitter.Submit(c.Context(), snap)
	switch {
	case errors.Is(err, pipeline.ErrEmptyPipeline):
		s.metrics.submissions.WithLabelValues("empty").Inc()
		return errorJSON(c, fiber.StatusUnprocessableEntity, s.editor.submitter.Notice())
	case errors.Is(err, client.ErrInFlight):
		s.metrics.submissions.WithLabelValues("in_flight").Inc()
		return errorJSON(c, fiber.StatusConflict, "submission in progress")
	case err != nil:
		s.metrics.submissions.WithLabelValues("unavailable").Inc()
		return errorJSON(c, fiber.StatusBadGateway, s.editor.submitter.Notice())
	}
	s.metrics.submissions.WithLabelValues("ok").Inc()
	return c.JSON(a)
}

func (s *Server) getResult(c fiber.Ctx) error {
	sub := s.editor.submitter
	if sub == nil {
		return c.JSON(fiber.Map{"result": nil, "notice": "", "loading": false})
	}
	return c.JSON(fiber.Map{"result": sub.Result(), "notice": sub.Notice(), "loading": sub.Loading()})
}

func (s *Server) dismissResult(c fiber.Ctx) error {
	if sub := s.editor.submitter; sub != nil {
		sub.Dismiss()
	}
	return c.SendStatus(fiber.StatusNoContent)
}
