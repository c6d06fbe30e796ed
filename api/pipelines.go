package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/analyze"
)

func (s *Server) parsePipeline(c fiber.Ctx) error {
	var p pipeline.Pipeline
	if err := c.Bind().JSON(&p); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := p.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	a := analyze.Analyze(&p)
	s.metrics.analyses.WithLabelValues(verdict(a.IsDAG)).Inc()

	if s.store != nil {
		p.ID = ""
		id, err := s.store.SavePipeline(c.Context(), &p, a)
		if err != nil {
			s.log.Error("save pipeline", "error", err)
			return errorJSON(c, fiber.StatusInternalServerError, err.Error())
		}
		a.ID = id
	}

	s.log.Info("pipeline analysed", "id", a.ID, "nodes", a.NumNodes, "edges", a.NumEdges, "is_dag", a.IsDAG)
	return c.JSON(a)
}

func (s *Server) listPipelines(c fiber.Ctx) error {
	if s.store == nil {
		return errorJSON(c, fiber.StatusNotImplemented, "persistence disabled")
	}
	list, err := s.store.ListPipelines(c.Context())
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(list)
}

func (s *Server) getPipeline(c fiber.Ctx) error {
	if s.store == nil {
		return errorJSON(c, fiber.StatusNotImplemented, "persistence disabled")
	}
	p, err := s.store.GetPipeline(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	if p == nil {
		return errorJSON(c, fiber.StatusNotFound, "pipeline not found")
	}
	return c.JSON(p)
}

func (s *Server) deletePipeline(c fiber.Ctx) error {
	if s.store == nil {
		return errorJSON(c, fiber.StatusNotImplemented, "persistence disabled")
	}
	err := s.store.DeletePipeline(c.Context(), c.Params("id"))
	if errors.Is(err, pipeline.ErrPipelineNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "pipeline not found")
	}
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}
