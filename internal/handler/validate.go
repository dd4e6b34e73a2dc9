package handler

import (
	"fmt"
	"regexp"

	"pollboard/internal/domain"
)

const (
	usernameMinLen    = 3
	usernameMaxLen    = 30
	passwordMinLen    = 6
	questionMinLen    = 3
	questionMaxLen    = 300
	descriptionMinLen = 3
	descriptionMaxLen = 1000
	topicNameMinLen   = 3
	topicNameMaxLen   = 50
	maxPollOptions    = 50
	maxTopicRefs      = 50
)

var (
	usernamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	topicNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// validateUsername checks length and character set
func validateUsername(username string) string {
	switch {
	case username == "":
		return "Username is required"
	case len(username) < usernameMinLen:
		return fmt.Sprintf("Username must be at least %d characters", usernameMinLen)
	case len(username) > usernameMaxLen:
		return fmt.Sprintf("Username cannot exceed %d characters", usernameMaxLen)
	case !usernamePattern.MatchString(username):
		return "Username can only contain characters from [a-zA-Z0-9_]"
	}
	return ""
}

func validateEmail(email string) string {
	switch {
	case email == "":
		return "Email is required"
	case !emailPattern.MatchString(email):
		return "Invalid email format"
	}
	return ""
}

func validatePassword(password string) string {
	switch {
	case password == "":
		return "Password is required"
	case len(password) < passwordMinLen:
		return fmt.Sprintf("Password must be at least %d characters long", passwordMinLen)
	}
	return ""
}

func validateQuestion(question string) string {
	switch {
	case question == "":
		return "Question is required"
	case len(question) < questionMinLen:
		return fmt.Sprintf("Question must be at least %d characters", questionMinLen)
	case len(question) > questionMaxLen:
		return fmt.Sprintf("Question cannot exceed %d characters", questionMaxLen)
	}
	return ""
}

// validateDescription applies only when a description is present
func validateDescription(description string) string {
	switch {
	case description == "":
		return ""
	case len(description) < descriptionMinLen:
		return fmt.Sprintf("Description must be at least %d characters", descriptionMinLen)
	case len(description) > descriptionMaxLen:
		return fmt.Sprintf("Description cannot exceed %d characters", descriptionMaxLen)
	}
	return ""
}

func validateTopicName(name string) string {
	switch {
	case name == "":
		return "Name is required"
	case len(name) < topicNameMinLen:
		return fmt.Sprintf("Name must be at least %d characters", topicNameMinLen)
	case len(name) > topicNameMaxLen:
		return fmt.Sprintf("Name cannot exceed %d characters", topicNameMaxLen)
	case !topicNamePattern.MatchString(name):
		return "Name can only contain characters from [a-zA-Z0-9-]"
	}
	return ""
}

// validateRegisterRequest returns field-level messages, or nil when valid
func validateRegisterRequest(req *domain.RegisterRequest) map[string]interface{} {
	details := map[string]interface{}{}
	if msg := validateUsername(req.Username); msg != "" {
		details["username"] = msg
	}
	if msg := validateEmail(req.Email); msg != "" {
		details["email"] = msg
	}
	if msg := validatePassword(req.Password); msg != "" {
		details["password"] = msg
	}
	if len(req.TopicIDs) > maxTopicRefs {
		details["topic_ids"] = fmt.Sprintf("Topic count cannot exceed %d", maxTopicRefs)
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func validateLoginRequest(req *domain.LoginRequest) map[string]interface{} {
	details := map[string]interface{}{}
	if msg := validateEmail(req.Email); msg != "" {
		details["email"] = msg
	}
	if req.Password == "" {
		details["password"] = "Password is required"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func validateUpdateUserRequest(req *domain.UpdateUserRequest) map[string]interface{} {
	details := map[string]interface{}{}
	if req.Username != nil {
		if msg := validateUsername(*req.Username); msg != "" {
			details["username"] = msg
		}
	}
	if req.Email != nil {
		if msg := validateEmail(*req.Email); msg != "" {
			details["email"] = msg
		}
	}
	if req.Password != nil {
		if msg := validatePassword(*req.Password); msg != "" {
			details["password"] = msg
		}
	}
	if req.TopicIDs != nil && len(*req.TopicIDs) > maxTopicRefs {
		details["topic_ids"] = fmt.Sprintf("Topic count cannot exceed %d", maxTopicRefs)
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func validateCreatePollRequest(req *domain.CreatePollRequest) map[string]interface{} {
	details := map[string]interface{}{}
	if msg := validateQuestion(req.Question); msg != "" {
		details["question"] = msg
	}
	if msg := validateDescription(req.Description); msg != "" {
		details["description"] = msg
	}
	switch {
	case len(req.Options) < 1:
		details["options"] = "At least one option is required"
	case len(req.Options) > maxPollOptions:
		details["options"] = fmt.Sprintf("Option count cannot exceed %d", maxPollOptions)
	default:
		seen := make(map[string]bool, len(req.Options))
		for _, name := range req.Options {
			if name == "" {
				details["options"] = "Option names cannot be empty"
				break
			}
			if seen[name] {
				details["options"] = "Option names must be unique"
				break
			}
			seen[name] = true
		}
	}
	if len(req.TopicIDs) > maxTopicRefs {
		details["topic_ids"] = fmt.Sprintf("Topic count cannot exceed %d", maxTopicRefs)
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func validateUpdatePollRequest(req *domain.UpdatePollRequest) map[string]interface{} {
	details := map[string]interface{}{}
	if req.Question != nil {
		if msg := validateQuestion(*req.Question); msg != "" {
			details["question"] = msg
		}
	}
	if req.Description != nil {
		if msg := validateDescription(*req.Description); msg != "" {
			details["description"] = msg
		}
	}
	if req.TopicIDs != nil && len(*req.TopicIDs) > maxTopicRefs {
		details["topic_ids"] = fmt.Sprintf("Topic count cannot exceed %d", maxTopicRefs)
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
