package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"pollboard/internal/domain"
	"pollboard/internal/repository"
	"pollboard/pkg/errors"
	"pollboard/pkg/redis"
)

type pollService struct {
	polls  repository.PollRepository
	topics repository.TopicRepository
	redis  *redis.Client
	logger *zap.Logger
}

// NewPollService creates the poll service. redisClient may be nil, in which
// case results are derived on every request without caching.
func NewPollService(polls repository.PollRepository, topics repository.TopicRepository, redisClient *redis.Client, logger *zap.Logger) PollService {
	return &pollService{
		polls:  polls,
		topics: topics,
		redis:  redisClient,
		logger: logger,
	}
}

// Create initialises every supplied option to a zero count and persists the
// poll. Option keys are fixed from this point on.
func (s *pollService) Create(ctx context.Context, creatorID string, req *domain.CreatePollRequest) (*domain.Poll, error) {
	if err := s.checkTopics(ctx, req.TopicIDs); err != nil {
		return nil, err
	}

	options := make(map[string]int, len(req.Options))
	for _, name := range req.Options {
		options[name] = 0
	}

	poll := &domain.Poll{
		Question:    req.Question,
		Description: req.Description,
		Options:     options,
		TopicIDs:    req.TopicIDs,
		CreatorID:   creatorID,
		Private:     req.Private,
	}

	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, errors.NewInternalError("Failed to create poll", err)
	}

	s.logger.Info("poll created",
		zap.String("poll_id", poll.ID),
		zap.String("creator_id", creatorID),
		zap.Int("options", len(options)))
	return poll, nil
}

// List returns all polls visible to the viewer: public polls plus the
// viewer's own private ones.
func (s *pollService) List(ctx context.Context, viewerID string) ([]domain.Poll, error) {
	polls, err := s.polls.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to retrieve polls", err)
	}

	visible := make([]domain.Poll, 0, len(polls))
	for _, poll := range polls {
		if poll.Private && poll.CreatorID != viewerID {
			continue
		}
		visible = append(visible, poll)
	}
	return visible, nil
}

// ListByCreator returns all polls created by the given user
func (s *pollService) ListByCreator(ctx context.Context, creatorID string) ([]domain.Poll, error) {
	polls, err := s.polls.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to retrieve user polls", err)
	}
	return polls, nil
}

// Get retrieves a poll by ID
func (s *pollService) Get(ctx context.Context, id string) (*domain.Poll, error) {
	poll, err := s.polls.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to retrieve poll", err)
	}
	if poll == nil {
		return nil, errors.NewNotFoundError("Poll not found")
	}
	return poll, nil
}

// Update overwrites the supplied fields. Only the creator may update a poll;
// option counts are never touched here.
func (s *pollService) Update(ctx context.Context, actorID, pollID string, req *domain.UpdatePollRequest) (*domain.Poll, error) {
	poll, err := s.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.CreatorID != actorID {
		return nil, errors.NewAuthorizationError("Only the poll creator may update it")
	}

	if req.Question != nil {
		poll.Question = *req.Question
	}
	if req.Description != nil {
		poll.Description = *req.Description
	}
	if req.Private != nil {
		poll.Private = *req.Private
	}
	if req.TopicIDs != nil {
		if err := s.checkTopics(ctx, *req.TopicIDs); err != nil {
			return nil, err
		}
		poll.TopicIDs = *req.TopicIDs
	}

	if err := s.polls.Update(ctx, poll); err != nil {
		if err == domain.ErrPollNotFound {
			return nil, errors.NewNotFoundError("Poll not found")
		}
		return nil, errors.NewInternalError("Failed to update poll", err)
	}
	return poll, nil
}

// Delete removes a poll after an existence and ownership check
func (s *pollService) Delete(ctx context.Context, actorID, pollID string) error {
	poll, err := s.Get(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.CreatorID != actorID {
		return errors.NewAuthorizationError("Only the poll creator may delete it")
	}

	if err := s.polls.Delete(ctx, pollID); err != nil {
		if err == domain.ErrPollNotFound {
			return errors.NewNotFoundError("Poll not found")
		}
		return errors.NewInternalError("Failed to delete poll", err)
	}

	s.invalidateResults(ctx, pollID)
	return nil
}

// Vote increments the named option's count. The repository serializes
// concurrent votes on the same poll, so M concurrent votes always net M
// increments. Voting never introduces new options.
func (s *pollService) Vote(ctx context.Context, pollID, optionName string) (*domain.Poll, error) {
	poll, err := s.polls.CastVote(ctx, pollID, optionName)
	if err != nil {
		switch err {
		case domain.ErrPollNotFound:
			return nil, errors.NewNotFoundError("Poll not found")
		case domain.ErrUnknownOption:
			return nil, errors.NewValidationError("Poll option does not exist", map[string]interface{}{
				"option": optionName,
			})
		case domain.ErrMalformedOptions:
			return nil, errors.NewInternalError("Poll state is malformed", err)
		default:
			return nil, errors.NewInternalError("Failed to vote for poll value", err)
		}
	}

	s.invalidateResults(ctx, pollID)

	s.logger.Info("vote cast",
		zap.String("poll_id", pollID),
		zap.String("option", optionName),
		zap.Int("count", poll.Options[optionName]))
	return poll, nil
}

// Results derives per-option percentages and ranking. Derived results are
// cached briefly and invalidated on vote.
func (s *pollService) Results(ctx context.Context, pollID string) (*domain.PollResults, error) {
	if s.redis != nil {
		key := s.redis.KeyBuilder.KeyPollResults(pollID)
		if cached, err := s.redis.Get(ctx, key); err == nil && cached != "" {
			var results domain.PollResults
			if err := json.Unmarshal([]byte(cached), &results); err == nil {
				return &results, nil
			}
		}
	}

	poll, err := s.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}

	results := deriveResults(poll)

	if s.redis != nil {
		if payload, err := json.Marshal(results); err == nil {
			key := s.redis.KeyBuilder.KeyPollResults(pollID)
			_ = s.redis.Set(ctx, key, payload, redis.TTLPollResults)
		}
	}
	return results, nil
}

func (s *pollService) checkTopics(ctx context.Context, topicIDs []string) error {
	for _, topicID := range topicIDs {
		topic, err := s.topics.GetByID(ctx, topicID)
		if err != nil {
			return errors.NewInternalError("Failed to verify topic", err)
		}
		if topic == nil {
			return errors.NewValidationError("Unknown topic reference", map[string]interface{}{
				"topic_id": topicID,
			})
		}
	}
	return nil
}

func (s *pollService) invalidateResults(ctx context.Context, pollID string) {
	if s.redis == nil {
		return
	}
	key := s.redis.KeyBuilder.KeyPollResults(pollID)
	if err := s.redis.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to invalidate poll results cache",
			zap.String("poll_id", pollID),
			zap.Error(err))
	}
}

// deriveResults computes totals, percentages and ranking from the raw option
// counts. Options are ordered by votes descending, then name ascending; all
// options sharing the top non-zero count are winners.
func deriveResults(poll *domain.Poll) *domain.PollResults {
	total := 0
	for _, votes := range poll.Options {
		total += votes
	}

	options := make([]domain.OptionResult, 0, len(poll.Options))
	for name, votes := range poll.Options {
		percentage := 0.0
		if total > 0 {
			percentage = float64(votes) / float64(total) * 100
		}
		options = append(options, domain.OptionResult{
			Name:       name,
			Votes:      votes,
			Percentage: percentage,
		})
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].Votes != options[j].Votes {
			return options[i].Votes > options[j].Votes
		}
		return options[i].Name < options[j].Name
	})

	for i := range options {
		options[i].Rank = i + 1
		options[i].IsWinner = total > 0 && options[i].Votes == options[0].Votes
	}

	return &domain.PollResults{
		PollID:     poll.ID,
		Question:   poll.Question,
		Options:    options,
		TotalVotes: total,
		LastUpdate: time.Now().UTC(),
	}
}
