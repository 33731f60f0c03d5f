package engine

import (
	"ripple-social/internal/database"
	"ripple-social/internal/engine/actors"
	"ripple-social/internal/settings"
	"ripple-social/internal/utils"
	"ripple-social/internal/visibility"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine owns the actor system's root PIDs. The notification actor is
// spawned first so every other actor can hold its PID for fire-and-forget
// fan-out.
type Engine struct {
	System *actor.ActorSystem

	UserPID         *actor.PID
	ThreadPID       *actor.PID
	ReplyPID        *actor.PID
	FeedPID         *actor.PID
	NotificationPID *actor.PID

	Metrics *utils.MetricsCollector
}

// Options carries the collaborators the actors need.
type Options struct {
	DB       database.DBAdapter
	Settings settings.Service
	Pusher   actors.Pusher
	Emails   actors.EmailSink
	Metrics  *utils.MetricsCollector
}

// NewEngine spawns the actor set.
func NewEngine(system *actor.ActorSystem, opts Options) *Engine {
	root := system.Root
	resolver := visibility.NewResolver(opts.DB)

	notificationPID := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewNotificationActor(opts.DB, opts.Settings, opts.Pusher, opts.Emails)
	}))
	userPID := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(opts.DB, notificationPID)
	}))
	threadPID := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewThreadActor(opts.DB, resolver, opts.Pusher, notificationPID)
	}))
	replyPID := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewReplyActor(opts.DB, resolver, opts.Pusher, notificationPID)
	}))
	feedPID := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewFeedActor(opts.DB, resolver)
	}))

	return &Engine{
		System:          system,
		UserPID:         userPID,
		ThreadPID:       threadPID,
		ReplyPID:        replyPID,
		FeedPID:         feedPID,
		NotificationPID: notificationPID,
		Metrics:         opts.Metrics,
	}
}
