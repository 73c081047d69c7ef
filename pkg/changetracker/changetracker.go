// Package changetracker renders diffs and keeps the on-disk history of
// model-applied file changes so they can be listed, reverted and restored.
package changetracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alantheprice/recode/pkg/filesystem"
	"github.com/alantheprice/recode/pkg/utils"
)

const (
	changesDir      = ".recode/changes"
	revisionsDir    = ".recode/revisions"
	activeStatus    = "active"
	revertedStatus  = "reverted"
	metadataFile    = "metadata.json"
	originalSuffix  = ".original"
	updatedSuffix   = ".updated"
	metadataVersion = 1
)

// ChangeMetadata stores metadata about a specific file change.
type ChangeMetadata struct {
	Version          int       `json:"version"`
	Filename         string    `json:"filename"`
	FileRevisionHash string    `json:"file_revision_hash"`
	RequestHash      string    `json:"request_hash"`
	Timestamp        time.Time `json:"timestamp"`
	Status           string    `json:"status"`
	Description      string    `json:"description"`
}

// ChangeLog represents a logged change, including context from its base
// revision.
type ChangeLog struct {
	RequestHash      string
	Instructions     string
	Response         string
	FileRevisionHash string
	Filename         string
	OriginalCode     string
	NewCode          string
	Description      string
	Status           string
	Timestamp        time.Time
}

func ensureChangesDirs() error {
	if err := os.MkdirAll(changesDir, 0755); err != nil {
		return fmt.Errorf("failed to create changes directory: %w", err)
	}
	if err := os.MkdirAll(revisionsDir, 0755); err != nil {
		return fmt.Errorf("failed to create revisions directory: %w", err)
	}
	return nil
}

// RecordBaseRevision saves the initial request and model response, returning
// a revision ID that file changes are recorded against.
func RecordBaseRevision(requestHash, instructions, response string) (string, error) {
	if err := ensureChangesDirs(); err != nil {
		return "", err
	}

	revisionID := requestHash
	revisionPath := filepath.Join(revisionsDir, revisionID)
	if err := os.MkdirAll(revisionPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create revision directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(revisionPath, "instructions.txt"), []byte(instructions), 0644); err != nil {
		return "", fmt.Errorf("failed to save instructions: %w", err)
	}
	if err := os.WriteFile(filepath.Join(revisionPath, "llm_response.txt"), []byte(response), 0644); err != nil {
		return "", fmt.Errorf("failed to save model response: %w", err)
	}

	return revisionID, nil
}

// RecordChange saves a specific file change against a base revision.
func RecordChange(baseRevisionID, filename, originalCode, newCode, description string) error {
	if err := ensureChangesDirs(); err != nil {
		return err
	}

	fileRevisionHash := utils.GenerateFileRevisionHash(filename, newCode)
	changeDir := filepath.Join(changesDir, fileRevisionHash)
	if err := os.MkdirAll(changeDir, 0755); err != nil {
		return fmt.Errorf("failed to create change directory: %w", err)
	}

	safeFilename := sanitizeChangeFilename(filename)
	if err := os.WriteFile(filepath.Join(changeDir, safeFilename+originalSuffix), []byte(originalCode), 0644); err != nil {
		return fmt.Errorf("failed to save original code: %w", err)
	}
	if err := os.WriteFile(filepath.Join(changeDir, safeFilename+updatedSuffix), []byte(newCode), 0644); err != nil {
		return fmt.Errorf("failed to save updated code: %w", err)
	}

	metadata := ChangeMetadata{
		Version:          metadataVersion,
		Filename:         filename,
		FileRevisionHash: fileRevisionHash,
		RequestHash:      baseRevisionID,
		Timestamp:        time.Now(),
		Status:           activeStatus,
		Description:      description,
	}

	metadataBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(changeDir, metadataFile), metadataBytes, 0644); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	return nil
}

// Change directories are flat; path separators in the filename would create
// nested directories.
func sanitizeChangeFilename(filename string) string {
	safe := strings.ReplaceAll(filename, "/", "_")
	return strings.ReplaceAll(safe, "\\", "_")
}

// ListChanges retrieves all recorded changes, most recent first.
func ListChanges() ([]ChangeLog, error) {
	entries, err := os.ReadDir(changesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ChangeLog{}, nil
		}
		return nil, fmt.Errorf("failed to read changes directory: %w", err)
	}

	var changes []ChangeLog
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		change, err := readChange(entry.Name())
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		changes = append(changes, *change)
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Timestamp.After(changes[j].Timestamp)
	})

	return changes, nil
}

func readChange(fileRevisionHash string) (*ChangeLog, error) {
	changeDir := filepath.Join(changesDir, fileRevisionHash)

	metadataBytes, err := os.ReadFile(filepath.Join(changeDir, metadataFile))
	if err != nil {
		return nil, err
	}
	var metadata ChangeMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata for %s: %w", fileRevisionHash, err)
	}

	safeFilename := sanitizeChangeFilename(metadata.Filename)
	originalBytes, err := os.ReadFile(filepath.Join(changeDir, safeFilename+originalSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read original code for %s: %w", metadata.Filename, err)
	}
	updatedBytes, err := os.ReadFile(filepath.Join(changeDir, safeFilename+updatedSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read updated code for %s: %w", metadata.Filename, err)
	}

	change := ChangeLog{
		RequestHash:      metadata.RequestHash,
		FileRevisionHash: metadata.FileRevisionHash,
		Filename:         metadata.Filename,
		OriginalCode:     string(originalBytes),
		NewCode:          string(updatedBytes),
		Description:      metadata.Description,
		Status:           metadata.Status,
		Timestamp:        metadata.Timestamp,
	}

	// Revision context is best-effort; a pruned revisions dir is not fatal.
	revisionPath := filepath.Join(revisionsDir, metadata.RequestHash)
	if instructions, err := os.ReadFile(filepath.Join(revisionPath, "instructions.txt")); err == nil {
		change.Instructions = string(instructions)
	}
	if response, err := os.ReadFile(filepath.Join(revisionPath, "llm_response.txt")); err == nil {
		change.Response = string(response)
	}

	return &change, nil
}

func updateChangeStatus(fileRevisionHash, status string) error {
	metadataPath := filepath.Join(changesDir, fileRevisionHash, metadataFile)

	metadataBytes, err := os.ReadFile(metadataPath)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	var metadata ChangeMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	metadata.Status = status

	updatedMetadata, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal updated metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath, updatedMetadata, 0644); err != nil {
		return fmt.Errorf("failed to write updated metadata: %w", err)
	}

	return nil
}

// RevertChange writes the recorded original content back to the file and
// marks the change reverted. Only active changes can be reverted.
func RevertChange(fileRevisionHash string) error {
	change, err := readChange(fileRevisionHash)
	if err != nil {
		return fmt.Errorf("failed to load change %s: %w", fileRevisionHash, err)
	}
	if change.Status != activeStatus {
		return fmt.Errorf("change %s is not active, cannot revert", fileRevisionHash)
	}

	if err := utils.CreateBackup(change.Filename); err != nil {
		return err
	}
	if err := filesystem.SaveFile(change.Filename, change.OriginalCode); err != nil {
		return err
	}
	return updateChangeStatus(fileRevisionHash, revertedStatus)
}

// RestoreChange re-applies the recorded updated content and marks the change
// active again. Only reverted changes can be restored.
func RestoreChange(fileRevisionHash string) error {
	change, err := readChange(fileRevisionHash)
	if err != nil {
		return fmt.Errorf("failed to load change %s: %w", fileRevisionHash, err)
	}
	if change.Status != revertedStatus {
		return fmt.Errorf("change %s is not reverted, cannot restore", fileRevisionHash)
	}

	if err := utils.CreateBackup(change.Filename); err != nil {
		return err
	}
	if err := filesystem.SaveFile(change.Filename, change.NewCode); err != nil {
		return err
	}
	return updateChangeStatus(fileRevisionHash, activeStatus)
}
