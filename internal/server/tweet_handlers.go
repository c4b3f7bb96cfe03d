// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"jokerclub/internal/models"
	"jokerclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTweet handles POST /api/tweets
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string   `json:"content"`
		Images  []string `json:"images,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.CreateTweet(ctx, service.CreateTweetInput{
		UserID:  userID,
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(tweet)
}

// GetTweets handles GET /api/tweets
func (s *Server) GetTweets(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	tweets, err := s.tweetService.ListTweets(ctx, service.ListTweetsInput{
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tweets)
}

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	tweets, err := s.tweetService.ListTweets(ctx, service.ListTweetsInput{
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
		FeedOnly:      true,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tweets)
}

// SearchTweets handles GET /api/tweets/search?q=...
func (s *Server) SearchTweets(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	tweets, err := s.tweetService.SearchTweets(ctx, q, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tweets)
}

// GetTweet handles GET /api/tweets/:id
func (s *Server) GetTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	tweet, err := s.tweetService.GetTweet(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tweet)
}

// GetUserTweets handles GET /api/users/:id/tweets
func (s *Server) GetUserTweets(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	currentUserID := c.Locals("userID").(uint)

	tweets, err := s.tweetService.GetUserTweets(ctx, targetID, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tweets)
}

// UpdateTweet handles PUT /api/tweets/:id
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		IsPinned *bool  `json:"is_pinned,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.UpdateTweet(ctx, service.UpdateTweetInput{
		UserID:   userID,
		TweetID:  tweetID,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(tweet)
}

// DeleteTweet handles DELETE /api/tweets/:id
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tweetService.DeleteTweet(ctx, service.DeleteTweetInput{
		UserID:  userID,
		TweetID: tweetID,
	}); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/tweets/:id/like. One request toggles the like
// on or off; the result field tells the client which way it went.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, tweet, err := s.tweetService.ToggleLike(ctx, userID, tweetID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"result": result,
		"tweet":  tweet,
	})
}

// ToggleRetweet handles POST /api/tweets/:id/retweet
func (s *Server) ToggleRetweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, tweet, err := s.tweetService.ToggleRetweet(ctx, userID, tweetID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"result": result,
		"tweet":  tweet,
	})
}

// CreateReply handles POST /api/tweets/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.tweetService.CreateReply(ctx, service.CreateReplyInput{
		UserID:  userID,
		TweetID: tweetID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetReplies handles GET /api/tweets/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	ctx := c.Context()
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	replies, err := s.tweetService.GetReplies(ctx, tweetID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(replies)
}
