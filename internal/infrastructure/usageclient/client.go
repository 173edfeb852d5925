package usageclient

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"modai/services/message-api/internal/domain/usage"
	"modai/services/message-api/internal/infrastructure/logger"
	"modai/services/message-api/internal/utils/httpclients"
)

// Client asks the user service whether a teen is under their daily message
// budget. Any transport failure fails open: availability of the chat
// experience outweighs limit enforcement precision.
type Client struct {
	http    *resty.Client
	baseURL string
}

var _ usage.LimitGuard = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	http := httpclients.NewClient("usage")
	http.SetTimeout(timeout)
	return &Client{http: http, baseURL: baseURL}
}

type dailyUsageResponse struct {
	MessagesSent int `json:"messages_sent"`
}

// CheckDailyLimit implements usage.LimitGuard. The error return is always
// nil; degraded checks surface only through the warn log.
func (c *Client) CheckDailyLimit(ctx context.Context, teenID string) (usage.LimitCheck, error) {
	log := logger.GetLogger()

	var body dailyUsageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", teenID).
		SetResult(&body).
		Get(fmt.Sprintf("%s/api/v1/usage/today", c.baseURL))
	if err != nil {
		log.Warn().Err(err).
			Str("teen_id", teenID).
			Msg("usage service unreachable, failing open")
		return usage.FailOpen(), nil
	}

	// A non-200 usage lookup counts as zero messages sent today.
	sent := 0
	if resp.IsSuccess() {
		sent = body.MessagesSent
	} else {
		log.Warn().
			Int("status", resp.StatusCode()).
			Str("teen_id", teenID).
			Msg("usage service returned error, assuming no usage")
	}

	limit := usage.DefaultMessagesLimit
	return usage.LimitCheck{
		Allowed:       sent < limit,
		MessagesSent:  sent,
		MessagesLimit: limit,
	}, nil
}

type ageGroupResponse struct {
	MaxDailyMessages int `json:"max_daily_messages"`
}

// CheckDailyLimitForAge is the age-aware variant: when the caller knows the
// teen's age, the limit comes from the matching age group instead of the
// default. Lookup failures fall back to the default limit.
func (c *Client) CheckDailyLimitForAge(ctx context.Context, teenID string, age int) (usage.LimitCheck, error) {
	check, _ := c.CheckDailyLimit(ctx, teenID)

	var body ageGroupResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/api/v1/age-groups/for-age/%d", c.baseURL, age))
	if err == nil && resp.IsSuccess() && body.MaxDailyMessages > 0 {
		check.MessagesLimit = body.MaxDailyMessages
		check.Allowed = check.MessagesSent < check.MessagesLimit
	}

	return check, nil
}
