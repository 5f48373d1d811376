package notifier

import (
	"fmt"
	"github.com/slack-go/slack"
	"log/slog"
	"sync"
)

// SlackNotifier posts each notification on the provided channel. If no channel is configured, it posts on every
// channel the bot is a member of.
type SlackNotifier struct {
	Logger *slog.Logger
	SlackSender
	Channel  string
	channels []slack.Channel
	lock     sync.Mutex
}

type SlackSender interface {
	PostMessage(string, ...slack.MsgOption) (string, string, error)
	GetConversations(*slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

var _ Notifier = &SlackNotifier{}

func (s *SlackNotifier) Notify(msg string) {
	channels, err := s.getChannels()
	if err != nil {
		s.Logger.Error("notifier failed to retrieve channels", "err", err)
		return
	}
	for _, channel := range channels {
		s.Logger.Debug("notifying on slack", "channel", channel)
		_, _, err = s.SlackSender.PostMessage(channel, slack.MsgOptionAttachments(slack.Attachment{
			Color: "good",
			Title: "smartlamp",
			Text:  msg,
		}))
		if err != nil {
			s.Logger.Error("notifier failed to post message", "err", err)
		}
	}
}

func (s *SlackNotifier) getChannels() ([]string, error) {
	if s.Channel != "" {
		return []string{s.Channel}, nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.channels == nil {
		var joined []slack.Channel
		var cursor string
		for {
			channels, nextCursor, err := s.SlackSender.GetConversations(&slack.GetConversationsParameters{Cursor: cursor, Limit: 100})
			if err != nil {
				return nil, fmt.Errorf("GetConversations: %w", err)
			}
			for _, channel := range channels {
				if channel.IsMember && !channel.IsArchived {
					joined = append(joined, channel)
				}
			}
			if cursor = nextCursor; cursor == "" {
				break
			}
		}
		s.channels = joined
	}

	ids := make([]string, len(s.channels))
	for i, channel := range s.channels {
		ids[i] = channel.ID
	}
	return ids, nil
}
