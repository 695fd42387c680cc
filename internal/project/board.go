package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/declutter/internal/model"
)

// BoardExt is the file extension for saved boards.
const BoardExt = ".board.json"

// IsBoardFile reports whether path names a saved board.
func IsBoardFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), BoardExt)
}

// SaveBoard writes a board to a JSON file, creating parent directories.
func SaveBoard(path string, board model.Board) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create board directory: %w", err)
	}
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBoard reads a board from a JSON file. Items are validated so a
// hand-edited file fails here rather than inside the engine. A partial
// settings object is filled in from DefaultSettings.
func LoadBoard(path string) (model.Board, error) {
	return LoadBoardWithDefaults(path, model.DefaultSettings())
}

// LoadBoardWithDefaults is LoadBoard with the settings a partial board
// override is layered onto. A board without a settings key keeps Settings nil.
func LoadBoardWithDefaults(path string, defaults model.Settings) (model.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Board{}, fmt.Errorf("failed to read board: %w", err)
	}

	var raw struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Board{}, fmt.Errorf("failed to parse board %s: %w", path, err)
	}

	// Decoding into a non-nil pointer only overwrites the keys present in the file.
	seeded := defaults
	board := model.Board{Settings: &seeded}
	if err := json.Unmarshal(data, &board); err != nil {
		return model.Board{}, fmt.Errorf("failed to parse board %s: %w", path, err)
	}
	if len(raw.Settings) == 0 {
		board.Settings = nil
	}

	if board.Items == nil {
		board.Items = []model.Item{}
	}
	if board.Name == "" {
		board.Name = strings.TrimSuffix(filepath.Base(path), BoardExt)
	}
	if err := model.ValidateItems(board.Items); err != nil {
		return model.Board{}, fmt.Errorf("invalid board %s: %w", path, err)
	}
	if board.Settings != nil {
		if err := board.Settings.Validate(); err != nil {
			return model.Board{}, fmt.Errorf("invalid board %s: %w", path, err)
		}
	}
	return board, nil
}
