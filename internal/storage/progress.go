package storage

import "fmt"

// MarkLevelCompleted records a solved Sokoban level (1-indexed).
// Marking an already completed level keeps the first completion time.
func (s *Store) MarkLevelCompleted(level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO sokoban_progress (level) VALUES (?)",
		level,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot mark level %d completed: %w", level, err)
	}
	return nil
}

// CompletedLevels returns the solved Sokoban levels in ascending order.
func (s *Store) CompletedLevels() ([]int, error) {
	rows, err := s.db.Query("SELECT level FROM sokoban_progress ORDER BY level")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	var levels []int
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("storage: cannot scan progress row: %w", err)
		}
		levels = append(levels, level)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return levels, nil
}

// ResetProgress forgets every completed Sokoban level.
func (s *Store) ResetProgress() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM sokoban_progress"); err != nil {
		return fmt.Errorf("storage: cannot reset progress: %w", err)
	}
	return nil
}
