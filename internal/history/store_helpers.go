package history

import (
	"database/sql"
	"encoding/json"
	"time"
)

const jobColumns = "id, operation, command, inputs_json, output, preset, status, exit_code, error_message, output_bytes, started_at, finished_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           string
		operation    string
		command      string
		inputsJSON   sql.NullString
		output       sql.NullString
		preset       sql.NullString
		status       string
		exitCode     sql.NullInt64
		errorMessage sql.NullString
		outputBytes  sql.NullInt64
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&operation,
		&command,
		&inputsJSON,
		&output,
		&preset,
		&status,
		&exitCode,
		&errorMessage,
		&outputBytes,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           id,
		Operation:    operation,
		Command:      command,
		Output:       output.String,
		Preset:       preset.String,
		Status:       Status(status),
		ErrorMessage: errorMessage.String,
		OutputBytes:  outputBytes.Int64,
		StartedAt:    parseTime(startedRaw),
	}
	if inputsJSON.Valid && inputsJSON.String != "" {
		_ = json.Unmarshal([]byte(inputsJSON.String), &entry.Inputs)
	}
	if exitCode.Valid {
		code := int(exitCode.Int64)
		entry.ExitCode = &code
	}
	if finishedRaw.Valid {
		entry.FinishedAt = parseTime(finishedRaw.String)
	}
	return entry, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
