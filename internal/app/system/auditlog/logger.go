// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/mssola/useragent"
	"github.com/sroam/sroregistry/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for audit events.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Registry controls where registry mutation and export events go.
	Registry string
}

// Logger records registry audit events to the audit store and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// clientDetails summarizes the user agent for the details map.
func clientDetails(r *http.Request) map[string]string {
	raw := r.UserAgent()
	if raw == "" {
		return map[string]string{}
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	d := map[string]string{
		"browser": strings.TrimSpace(browser + " " + version),
		"os":      ua.OS(),
		"mobile":  strconv.FormatBool(ua.Mobile()),
	}
	if ua.Bot() {
		d["bot"] = "true"
	}
	return d
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.MemberID != nil {
		fields = append(fields, zap.String("member_id", event.MemberID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to configuration.
// A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := DestAll
	if event.Category == audit.CategoryRegistry && l.config.Registry != "" {
		setting = l.config.Registry
	}
	if setting == DestOff {
		return
	}
	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}
	if (setting == DestAll || setting == DestDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) registryEvent(r *http.Request, eventType string, actorID, memberID *primitive.ObjectID, extra map[string]string) audit.Event {
	details := clientDetails(r)
	for k, v := range extra {
		details[k] = v
	}
	return audit.Event{
		Category:  audit.CategoryRegistry,
		EventType: eventType,
		ActorID:   actorID,
		MemberID:  memberID,
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	}
}

// MemberCreated logs creation of a registry member.
func (l *Logger) MemberCreated(ctx context.Context, r *http.Request, actorID, memberID primitive.ObjectID, inn, registryNumber string) {
	if l == nil {
		return
	}
	l.Log(ctx, l.registryEvent(r, audit.EventMemberCreated, &actorID, &memberID, map[string]string{
		"inn":             inn,
		"registry_number": registryNumber,
	}))
}

// MemberUpdated logs a partial update; fields lists the JSON names that changed.
func (l *Logger) MemberUpdated(ctx context.Context, r *http.Request, actorID, memberID primitive.ObjectID, fields []string) {
	if l == nil {
		return
	}
	l.Log(ctx, l.registryEvent(r, audit.EventMemberUpdated, &actorID, &memberID, map[string]string{
		"fields": strings.Join(fields, ","),
	}))
}

// MemberDeleted logs a hard delete.
func (l *Logger) MemberDeleted(ctx context.Context, r *http.Request, actorID, memberID primitive.ObjectID) {
	if l == nil {
		return
	}
	l.Log(ctx, l.registryEvent(r, audit.EventMemberDeleted, &actorID, &memberID, nil))
}

// RegistryExported logs a full export. actorID may be nil for session actors
// without an ObjectID.
func (l *Logger) RegistryExported(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, format string, rows int) {
	if l == nil {
		return
	}
	l.Log(ctx, l.registryEvent(r, audit.EventRegistryExported, actorID, nil, map[string]string{
		"format": format,
		"rows":   strconv.Itoa(rows),
	}))
}
