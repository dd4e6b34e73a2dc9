package service

import (
	"context"

	"go.uber.org/zap"

	"pollboard/internal/domain"
	"pollboard/internal/repository"
	"pollboard/pkg/errors"
)

type topicService struct {
	topics repository.TopicRepository
	logger *zap.Logger
}

// NewTopicService creates the topic service
func NewTopicService(topics repository.TopicRepository, logger *zap.Logger) TopicService {
	return &topicService{topics: topics, logger: logger}
}

func (s *topicService) Create(ctx context.Context, req *domain.CreateTopicRequest) (*domain.Topic, error) {
	topic := &domain.Topic{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, errors.NewInternalError("Failed to create topic", err)
	}

	s.logger.Info("topic created",
		zap.String("topic_id", topic.ID),
		zap.String("name", topic.Name))
	return topic, nil
}

func (s *topicService) List(ctx context.Context) ([]domain.Topic, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to retrieve topics", err)
	}
	return topics, nil
}

func (s *topicService) Get(ctx context.Context, id string) (*domain.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to retrieve topic", err)
	}
	if topic == nil {
		return nil, errors.NewNotFoundError("Topic not found")
	}
	return topic, nil
}

func (s *topicService) Update(ctx context.Context, id string, req *domain.UpdateTopicRequest) (*domain.Topic, error) {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		topic.Name = *req.Name
	}
	if req.Description != nil {
		topic.Description = *req.Description
	}

	if err := s.topics.Update(ctx, topic); err != nil {
		if err == domain.ErrTopicNotFound {
			return nil, errors.NewNotFoundError("Topic not found")
		}
		return nil, errors.NewInternalError("Failed to update topic", err)
	}
	return topic, nil
}

func (s *topicService) Delete(ctx context.Context, id string) error {
	if err := s.topics.Delete(ctx, id); err != nil {
		if err == domain.ErrTopicNotFound {
			return errors.NewNotFoundError("Topic not found")
		}
		return errors.NewInternalError("Failed to delete topic", err)
	}
	return nil
}
