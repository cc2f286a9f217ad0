package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/bubblepop/internal/engine"
)

// ScoreEntry represents a single finished session.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Mode      string
	Score     int
	SessionID string
	CreatedAt time.Time
}

// SaveScore records a new score for the given game and mode.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	if e.Mode == "" {
		e.Mode = engine.ModeClassic.String()
	}
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, mode, score, session_id, created_at) VALUES (?, ?, ?, ?, ?)",
		e.GameID, e.Mode, e.Score, e.SessionID, formatTime(e.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given game across modes.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	return s.topScores(gameID, "", limit)
}

// TopScoresByMode retrieves the top N scores for one mode of a game.
func (s *Store) TopScoresByMode(gameID, mode string, limit int) ([]ScoreEntry, error) {
	return s.topScores(gameID, mode, limit)
}

func (s *Store) topScores(gameID, mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, mode, score, session_id, created_at
		 FROM scores
		 WHERE game_id = ? AND (? = '' OR mode = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Mode, &e.Score, &e.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// BestScore implements engine.ScoreStore.
func (s *Store) BestScore(gameID string) (int, error) {
	return s.HighScore(gameID)
}

// RecordResult implements engine.ScoreStore. Zero scores are not kept.
func (s *Store) RecordResult(r engine.Result) error {
	if r.Score <= 0 {
		return nil
	}
	_, err := s.SaveScore(ScoreEntry{
		GameID:    r.GameID,
		Mode:      r.Mode.String(),
		Score:     r.Score,
		SessionID: r.SessionID,
		CreatedAt: r.At,
	})
	return err
}

var _ engine.ScoreStore = (*Store)(nil)

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}
	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore, &gs.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
