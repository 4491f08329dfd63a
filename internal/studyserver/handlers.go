package studyserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes attaches the study API to a route group. Auth middleware is
// the caller's responsibility; handlers read the user from the request
// context.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/decks", s.handleAddDeck)
	g.GET("/decks", s.handleGetDecks)
	g.GET("/decks/:id/stats", s.handleGetDeckStats)
	g.GET("/decks/:id/due", s.handleGetDueCards)
	g.POST("/cards", s.handleAddCards)
	g.POST("/cards/score", s.handleScoreCard)
	g.POST("/cards/check", s.handleCheckAnswer)
	g.GET("/streak", s.handleGetStreak)
	g.GET("/activity/today", s.handleGetDailyProgress)
	g.POST("/streak/vacation", s.handleSetVacationMode)
	g.GET("/leaderboard", s.handleGetLeaderboard)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrCardNotFound), errors.Is(err, ErrDeckNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidArg):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

func (s *Server) handleScoreCard(c echo.Context) error {
	var req ScoreCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := s.ScoreCard(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCheckAnswer(c echo.Context) error {
	var req CheckAnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := s.CheckAnswer(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAddDeck(c echo.Context) error {
	var req AddDeckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := s.AddDeck(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleGetDecks(c echo.Context) error {
	resp, err := s.GetDecks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetDeckStats(c echo.Context) error {
	deckID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad deck id")
	}
	resp, err := s.GetDeckStats(c.Request().Context(), deckID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetDueCards(c echo.Context) error {
	deckID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad deck id")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	resp, err := s.GetDueCards(c.Request().Context(), &GetDueCardsRequest{
		DeckID: deckID, Limit: limit,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAddCards(c echo.Context) error {
	var req AddCardsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := s.AddCards(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleGetStreak(c echo.Context) error {
	resp, err := s.GetStreak(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetDailyProgress(c echo.Context) error {
	tzOffset, _ := strconv.Atoi(c.QueryParam("tzOffset"))
	resp, err := s.GetDailyProgress(c.Request().Context(), tzOffset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSetVacationMode(c echo.Context) error {
	var req SetVacationModeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.SetVacationMode(c.Request().Context(), &req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleGetLeaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	resp, err := s.GetLeaderboard(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
