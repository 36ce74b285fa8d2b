/*
Package types defines the data structures shared across the EKoder client.

# Overview

The types package provides:
  - Service contract types (CodingRequest, CodingResult, Candidate)
  - Auth types (Identity, LoginRequest, LoginResponse)
  - Health payload (HealthStatus)
  - Local audit trail rows (AuditEntry)
  - Shared validation and display helpers

# Service Contract

CodingResult mirrors the coding service's response for both the text and
upload endpoints. Optional fields use zero values with omitempty: a
Complexity of 0 means the service omitted the level. Candidates arrive
pre-ranked; nothing in the client ever reorders them.

# Validation

Submission preconditions that can be checked without a network call live
here so the TUI and the one-shot CLI enforce identical rules:
  - ValidateClinicalText: trimmed length within [10, 10000]
  - IsSupportedFile: extension in {.txt, .pdf, .docx}

# Display Helpers

Complexity levels render through a fixed six-entry label table
("Minor (1)" through "Very High (6)"). ComplexityLabel clamps and looks up;
FallbackComplexityLabel produces the "Level N" form used when the service
sends a level without a label. FormatScore renders scores as percentages
with one decimal place.

# Field Tags

All contract types carry JSON tags (and YAML tags where the CLI can emit
YAML). The omitempty tag keeps serialized output clean.
*/
package types
