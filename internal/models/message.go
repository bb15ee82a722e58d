// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package models

import "time"

// Message is a managed record: a short unique code plus free-form content.
type Message struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateMessageRequest is the payload for creating a message record.
type CreateMessageRequest struct {
	Code    string `json:"code" validate:"required,max=50"`
	Content string `json:"content" validate:"required,max=500"`
}

// UpdateMessageRequest is the payload for updating a message record.
// The code is immutable after creation; only content can change.
type UpdateMessageRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

// MessagePage is one page of message records, newest first.
type MessagePage struct {
	Items      []Message `json:"items"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}
