package httpapi

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleIngest accepts a multipart upload and indexes it.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "multipart field %q is required", "file")
	}

	f, err := file.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fail(c, err)
	}

	res, err := s.services.Ingestion.Ingest(c.Context(), file.Filename, data)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ingestResponse{
		FileID:      res.FileID,
		FileName:    res.FileName,
		TotalChunks: res.TotalChunks,
	})
}

// handleChat runs one conversation turn.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := s.services.Chat.Chat(c.Context(), domain.ChatRequest{
		ChatID:  req.ChatID,
		UserID:  req.UserID,
		Message: req.Message,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(chatResponse{
		ChatID:           resp.ChatID,
		RequestID:        resp.RequestID,
		ResponseID:       resp.ResponseID,
		Response:         resp.Response,
		ResponseMetadata: toSimilarityEntries(resp.ResponseMetadata),
		CreatedAt:        resp.CreatedAt,
	})
}

// handleHistory returns the turns of a conversation.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	chatID := c.Params("chat_id")

	history, err := s.services.Chat.History(c.Context(), chatID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(historyResponse{
		ChatID: chatID,
		Turns:  toHistoryTurns(history),
	})
}

// handleSearch runs a single-turn query.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	answer, err := s.services.Search.Search(c.Context(), domain.UserQuery{
		QueryText:     req.Query,
		QueryMetadata: req.Metadata,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(searchResponse{
		Response:         answer.Response,
		ResponseMetadata: toSimilarityEntries(answer.ResponseMetadata),
	})
}

// handleListDocuments returns one rollup per ingested file.
func (s *Server) handleListDocuments(c *fiber.Ctx) error {
	infos, err := s.services.Documents.List(c.Context())
	if err != nil {
		return fail(c, err)
	}

	entries := make([]documentEntry, len(infos))
	for i, info := range infos {
		entries[i] = documentEntry{
			FileID:      info.FileID,
			FileName:    info.FileName,
			TotalChunks: info.TotalChunks,
			IsArchived:  info.IsArchived,
			CreatedAt:   info.CreatedAt,
		}
	}
	return c.JSON(entries)
}

// handleArchive toggles the archived flag on a file.
func (s *Server) handleArchive(c *fiber.Ctx) error {
	var req archiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := s.services.Documents.SetArchived(c.Context(), c.Params("file_id"), req.Archived); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"file_id": c.Params("file_id"), "archived": req.Archived})
}

// handleSubmitFeedback records a conversation rating.
func (s *Server) handleSubmitFeedback(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	saved, err := s.services.Feedback.Submit(c.Context(), domain.Feedback{
		ChatID:   req.ChatID,
		UserName: req.UserName,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toFeedbackResponse(*saved))
}

// handleFeedbackByUser returns all feedback a user has submitted.
func (s *Server) handleFeedbackByUser(c *fiber.Ctx) error {
	items, err := s.services.Feedback.ByUser(c.Context(), c.Params("user_name"))
	if err != nil {
		return fail(c, err)
	}

	entries := make([]feedbackResponse, len(items))
	for i, fb := range items {
		entries[i] = toFeedbackResponse(fb)
	}
	return c.JSON(entries)
}

// handleFeedbackByChat returns the latest feedback for a conversation.
func (s *Server) handleFeedbackByChat(c *fiber.Ctx) error {
	fb, err := s.services.Feedback.ByChatID(c.Context(), c.Params("chat_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toFeedbackResponse(*fb))
}
