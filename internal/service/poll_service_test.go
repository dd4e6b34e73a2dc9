package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pollboard/internal/domain"
	apperrors "pollboard/pkg/errors"
	"pollboard/pkg/redis"
)

// fakePollRepo is an in-memory PollRepository. CastVote serializes on the
// mutex the same way the real repository serializes on a row lock.
type fakePollRepo struct {
	mu    sync.Mutex
	polls map[string]*domain.Poll
	next  int
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[string]*domain.Poll)}
}

func clonePoll(p *domain.Poll) *domain.Poll {
	c := *p
	c.Options = make(map[string]int, len(p.Options))
	for k, v := range p.Options {
		c.Options[k] = v
	}
	c.TopicIDs = append([]string(nil), p.TopicIDs...)
	return &c
}

func (r *fakePollRepo) Create(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	poll.ID = fmt.Sprintf("poll-%d", r.next)
	r.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (r *fakePollRepo) GetByID(ctx context.Context, id string) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, nil
	}
	return clonePoll(poll), nil
}

func (r *fakePollRepo) List(ctx context.Context) ([]domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Poll, 0, len(r.polls))
	for _, poll := range r.polls {
		out = append(out, *clonePoll(poll))
	}
	return out, nil
}

func (r *fakePollRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Poll{}
	for _, poll := range r.polls {
		if poll.CreatorID == creatorID {
			out = append(out, *clonePoll(poll))
		}
	}
	return out, nil
}

func (r *fakePollRepo) Update(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[poll.ID]; !ok {
		return domain.ErrPollNotFound
	}
	r.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (r *fakePollRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

func (r *fakePollRepo) CastVote(ctx context.Context, pollID, optionName string) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[pollID]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	if _, ok := poll.Options[optionName]; !ok {
		return nil, domain.ErrUnknownOption
	}
	poll.Options[optionName]++
	return clonePoll(poll), nil
}

type fakeTopicRepo struct {
	mu     sync.Mutex
	topics map[string]*domain.Topic
}

func newFakeTopicRepo(ids ...string) *fakeTopicRepo {
	r := &fakeTopicRepo{topics: make(map[string]*domain.Topic)}
	for _, id := range ids {
		r.topics[id] = &domain.Topic{ID: id, Name: "topic-" + id}
	}
	return r
}

func (r *fakeTopicRepo) Create(ctx context.Context, topic *domain.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if topic.ID == "" {
		topic.ID = fmt.Sprintf("topic-%d", len(r.topics)+1)
	}
	r.topics[topic.ID] = topic
	return nil
}

func (r *fakeTopicRepo) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	topic, ok := r.topics[id]
	if !ok {
		return nil, nil
	}
	return topic, nil
}

func (r *fakeTopicRepo) List(ctx context.Context) ([]domain.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Topic, 0, len(r.topics))
	for _, topic := range r.topics {
		out = append(out, *topic)
	}
	return out, nil
}

func (r *fakeTopicRepo) Update(ctx context.Context, topic *domain.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.topics[topic.ID]; !ok {
		return domain.ErrTopicNotFound
	}
	r.topics[topic.ID] = topic
	return nil
}

func (r *fakeTopicRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.topics[id]; !ok {
		return domain.ErrTopicNotFound
	}
	delete(r.topics, id)
	return nil
}

func newTestPollService(t *testing.T) (PollService, *fakePollRepo) {
	t.Helper()
	repo := newFakePollRepo()
	topics := newFakeTopicRepo("t1", "t2")
	return NewPollService(repo, topics, nil, zap.NewNop()), repo
}

func createTestPoll(t *testing.T, svc PollService, options ...string) *domain.Poll {
	t.Helper()
	if len(options) == 0 {
		options = []string{"red", "green", "blue"}
	}
	poll, err := svc.Create(context.Background(), "user-1", &domain.CreatePollRequest{
		Question: "Favorite color?",
		Options:  options,
	})
	require.NoError(t, err)
	return poll
}

func TestPollService_Create_InitialisesZeroCounts(t *testing.T) {
	svc, _ := newTestPollService(t)

	poll, err := svc.Create(context.Background(), "user-1", &domain.CreatePollRequest{
		Question: "Favorite color?",
		Options:  []string{"red", "green"},
		TopicIDs: []string{"t1"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, poll.ID)
	assert.Equal(t, "user-1", poll.CreatorID)
	assert.Equal(t, map[string]int{"red": 0, "green": 0}, poll.Options)
}

func TestPollService_Create_UnknownTopic(t *testing.T) {
	svc, _ := newTestPollService(t)

	_, err := svc.Create(context.Background(), "user-1", &domain.CreatePollRequest{
		Question: "Favorite color?",
		Options:  []string{"red"},
		TopicIDs: []string{"missing"},
	})

	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "missing", appErr.Details["topic_id"])
}

func TestPollService_Vote_IncrementsOption(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)

	updated, err := svc.Vote(context.Background(), poll.ID, "red")
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Options["red"])
	assert.Equal(t, 0, updated.Options["green"])
	assert.Equal(t, 0, updated.Options["blue"])
}

func TestPollService_Vote_SequentialVotesAccumulate(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Vote(ctx, poll.ID, "red")
		require.NoError(t, err)
	}
	_, err := svc.Vote(ctx, poll.ID, "green")
	require.NoError(t, err)

	got, err := svc.Get(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Options["red"])
	assert.Equal(t, 1, got.Options["green"])
}

func TestPollService_Vote_ConcurrentVotesAllLand(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)
	ctx := context.Background()

	const voters = 50
	var wg sync.WaitGroup
	errs := make(chan error, voters)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Vote(ctx, poll.ID, "red")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.Get(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, got.Options["red"])
}

func TestPollService_Vote_UnknownOption(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)
	ctx := context.Background()

	_, err := svc.Vote(ctx, poll.ID, "purple")

	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "purple", appErr.Details["option"])

	// A rejected vote must not introduce the option or touch any count
	got, err := svc.Get(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"red": 0, "green": 0, "blue": 0}, got.Options)
}

func TestPollService_Vote_PollNotFound(t *testing.T) {
	svc, _ := newTestPollService(t)

	_, err := svc.Vote(context.Background(), "missing", "red")

	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestPollService_List_FiltersPrivatePolls(t *testing.T) {
	svc, _ := newTestPollService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", &domain.CreatePollRequest{
		Question: "Public poll?",
		Options:  []string{"yes"},
	})
	require.NoError(t, err)

	private, err := svc.Create(ctx, "user-1", &domain.CreatePollRequest{
		Question: "Private poll?",
		Options:  []string{"yes"},
		Private:  true,
	})
	require.NoError(t, err)

	// Anonymous viewers only see public polls
	polls, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, polls, 1)

	// Another user cannot see someone else's private poll
	polls, err = svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, polls, 1)

	// The creator sees their own private poll
	polls, err = svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, polls, 2)

	found := false
	for _, p := range polls {
		if p.ID == private.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPollService_Update_OnlyCreator(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)

	question := "Changed question?"
	_, err := svc.Update(context.Background(), "user-2", poll.ID, &domain.UpdatePollRequest{
		Question: &question,
	})

	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeAuthorization, appErr.Type)
}

func TestPollService_Update_LeavesCountsAlone(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)
	ctx := context.Background()

	_, err := svc.Vote(ctx, poll.ID, "red")
	require.NoError(t, err)

	question := "Changed question?"
	updated, err := svc.Update(ctx, "user-1", poll.ID, &domain.UpdatePollRequest{
		Question: &question,
	})
	require.NoError(t, err)

	assert.Equal(t, "Changed question?", updated.Question)
	assert.Equal(t, 1, updated.Options["red"])
}

func TestPollService_Delete_OnlyCreator(t *testing.T) {
	svc, repo := newTestPollService(t)
	poll := createTestPoll(t, svc)
	ctx := context.Background()

	err := svc.Delete(ctx, "user-2", poll.ID)
	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeAuthorization, appErr.Type)

	require.NoError(t, svc.Delete(ctx, "user-1", poll.ID))
	stored, err := repo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPollService_Results_RanksAndPercentages(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Vote(ctx, poll.ID, "red")
		require.NoError(t, err)
	}
	_, err := svc.Vote(ctx, poll.ID, "green")
	require.NoError(t, err)

	results, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)

	assert.Equal(t, poll.ID, results.PollID)
	assert.Equal(t, 4, results.TotalVotes)
	require.Len(t, results.Options, 3)

	assert.Equal(t, "red", results.Options[0].Name)
	assert.Equal(t, 3, results.Options[0].Votes)
	assert.InDelta(t, 75.0, results.Options[0].Percentage, 0.001)
	assert.Equal(t, 1, results.Options[0].Rank)
	assert.True(t, results.Options[0].IsWinner)

	assert.Equal(t, "green", results.Options[1].Name)
	assert.Equal(t, 2, results.Options[1].Rank)
	assert.False(t, results.Options[1].IsWinner)

	assert.Equal(t, "blue", results.Options[2].Name)
	assert.Equal(t, 0, results.Options[2].Votes)
	assert.Equal(t, 3, results.Options[2].Rank)
}

func TestPollService_Results_TiedWinners(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc, "a", "b", "c")
	ctx := context.Background()

	_, err := svc.Vote(ctx, poll.ID, "a")
	require.NoError(t, err)
	_, err = svc.Vote(ctx, poll.ID, "b")
	require.NoError(t, err)

	results, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)

	assert.True(t, results.Options[0].IsWinner)
	assert.True(t, results.Options[1].IsWinner)
	assert.False(t, results.Options[2].IsWinner)
}

func TestPollService_Results_NoVotesNoWinner(t *testing.T) {
	svc, _ := newTestPollService(t)
	poll := createTestPoll(t, svc)

	results, err := svc.Results(context.Background(), poll.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, results.TotalVotes)
	for _, option := range results.Options {
		assert.False(t, option.IsWinner)
		assert.Equal(t, 0.0, option.Percentage)
	}
}

func TestPollService_Results_CacheInvalidatedOnVote(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	repo := newFakePollRepo()
	topics := newFakeTopicRepo()
	svc := NewPollService(repo, topics, redisClient, zap.NewNop())
	ctx := context.Background()

	poll := createTestPoll(t, svc)

	// First read populates the cache
	results, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, results.TotalVotes)

	// A vote invalidates it, so the next read reflects the new count
	_, err = svc.Vote(ctx, poll.ID, "red")
	require.NoError(t, err)

	results, err = svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, results.TotalVotes)
}
