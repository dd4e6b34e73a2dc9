package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pollboard/internal/domain"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{
			name:     "Valid username",
			username: "alice_01",
			wantErr:  false,
		},
		{
			name:     "Empty",
			username: "",
			wantErr:  true,
		},
		{
			name:     "Too short",
			username: "ab",
			wantErr:  true,
		},
		{
			name:     "Too long",
			username: strings.Repeat("a", 31),
			wantErr:  true,
		},
		{
			name:     "At max length",
			username: strings.Repeat("a", 30),
			wantErr:  false,
		},
		{
			name:     "Illegal characters",
			username: "alice!",
			wantErr:  true,
		},
		{
			name:     "Spaces rejected",
			username: "alice smith",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateUsername(tt.username)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "Valid email",
			email:   "alice@example.com",
			wantErr: false,
		},
		{
			name:    "Empty",
			email:   "",
			wantErr: true,
		},
		{
			name:    "Missing at sign",
			email:   "alice.example.com",
			wantErr: true,
		},
		{
			name:    "Missing domain dot",
			email:   "alice@example",
			wantErr: true,
		},
		{
			name:    "Contains whitespace",
			email:   "alice @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateEmail(tt.email)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NotEmpty(t, validatePassword(""))
	assert.NotEmpty(t, validatePassword("short"))
	assert.Empty(t, validatePassword("secret"))
	assert.Empty(t, validatePassword("a longer password"))
}

func TestValidateQuestion(t *testing.T) {
	assert.NotEmpty(t, validateQuestion(""))
	assert.NotEmpty(t, validateQuestion("ab"))
	assert.NotEmpty(t, validateQuestion(strings.Repeat("a", 301)))
	assert.Empty(t, validateQuestion("abc"))
	assert.Empty(t, validateQuestion(strings.Repeat("a", 300)))
}

func TestValidateDescription(t *testing.T) {
	// Description is optional; empty is valid
	assert.Empty(t, validateDescription(""))
	assert.NotEmpty(t, validateDescription("ab"))
	assert.NotEmpty(t, validateDescription(strings.Repeat("a", 1001)))
	assert.Empty(t, validateDescription("a fine description"))
}

func TestValidateTopicName(t *testing.T) {
	tests := []struct {
		name      string
		topicName string
		wantErr   bool
	}{
		{
			name:      "Valid name",
			topicName: "web-development",
			wantErr:   false,
		},
		{
			name:      "Empty",
			topicName: "",
			wantErr:   true,
		},
		{
			name:      "Too short",
			topicName: "ab",
			wantErr:   true,
		},
		{
			name:      "Too long",
			topicName: strings.Repeat("a", 51),
			wantErr:   true,
		},
		{
			name:      "Underscore rejected",
			topicName: "web_development",
			wantErr:   true,
		},
		{
			name:      "Spaces rejected",
			topicName: "web development",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateTopicName(tt.topicName)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	valid := &domain.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}
	assert.Nil(t, validateRegisterRequest(valid))

	invalid := &domain.RegisterRequest{
		Username: "a",
		Email:    "not-an-email",
		Password: "x",
	}
	details := validateRegisterRequest(invalid)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestValidateCreatePollRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       *domain.CreatePollRequest
		wantField string
	}{
		{
			name: "Valid request",
			req: &domain.CreatePollRequest{
				Question: "Favorite color?",
				Options:  []string{"red", "green"},
			},
			wantField: "",
		},
		{
			name: "No options",
			req: &domain.CreatePollRequest{
				Question: "Favorite color?",
				Options:  []string{},
			},
			wantField: "options",
		},
		{
			name: "Too many options",
			req: &domain.CreatePollRequest{
				Question: "Favorite color?",
				Options:  makeOptions(51),
			},
			wantField: "options",
		},
		{
			name: "Empty option name",
			req: &domain.CreatePollRequest{
				Question: "Favorite color?",
				Options:  []string{"red", ""},
			},
			wantField: "options",
		},
		{
			name: "Duplicate option names",
			req: &domain.CreatePollRequest{
				Question: "Favorite color?",
				Options:  []string{"red", "red"},
			},
			wantField: "options",
		},
		{
			name: "Question too short",
			req: &domain.CreatePollRequest{
				Question: "ab",
				Options:  []string{"red"},
			},
			wantField: "question",
		},
		{
			name: "Description too short",
			req: &domain.CreatePollRequest{
				Question:    "Favorite color?",
				Description: "ab",
				Options:     []string{"red"},
			},
			wantField: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := validateCreatePollRequest(tt.req)
			if tt.wantField == "" {
				assert.Nil(t, details)
			} else {
				assert.Contains(t, details, tt.wantField)
			}
		})
	}
}

func TestValidateUpdatePollRequest(t *testing.T) {
	assert.Nil(t, validateUpdatePollRequest(&domain.UpdatePollRequest{}))

	question := "ab"
	details := validateUpdatePollRequest(&domain.UpdatePollRequest{Question: &question})
	assert.Contains(t, details, "question")
}

func makeOptions(n int) []string {
	options := make([]string, n)
	for i := range options {
		options[i] = strings.Repeat("x", i+1)
	}
	return options
}
