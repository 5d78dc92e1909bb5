// internal/syncer/coordinator.go

package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/interaction"
	"github.com/avelinoh/amoretrack/internal/lead"
	"github.com/avelinoh/amoretrack/internal/remote"
	"github.com/avelinoh/amoretrack/internal/settings"
	"github.com/avelinoh/amoretrack/internal/store"
)

const updatedAtField = "updated_at"

// Coordinator keeps three copies of the tracker state consistent:
// the in-memory repositories (owned by the services), the local
// store (written synchronously) and the remote store (written
// asynchronously behind a circuit breaker).
type Coordinator struct {
	local  store.Local
	remote remote.Store
	logger *zap.Logger

	breaker      *gobreaker.CircuitBreaker
	writeTimeout time.Duration
	now          func() time.Time

	// inflight counts locally-initiated remote writes that have not
	// completed yet. Remote change notifications received while the
	// counter is non-zero are echoes of our own writes and are dropped.
	inflight atomic.Int32
	writes   sync.WaitGroup

	mu           sync.Mutex
	status       Status
	statusMsg    string
	lastSyncAt   *time.Time
	localWarning string

	onChange func(AppData)
	stopSub  func()
}

// New builds a Coordinator in the connecting state.
func New(local store.Local, rem remote.Store, writeTimeout time.Duration, logger *zap.Logger) *Coordinator {
	c := &Coordinator{
		local:        local,
		remote:       rem,
		logger:       logger,
		writeTimeout: writeTimeout,
		status:       StatusConnecting,
		now:          time.Now,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "remote-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("remote circuit state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	SetSyncStatus(StatusConnecting)
	return c
}

// LoadAll resolves the authoritative startup snapshot. The remote
// store wins when reachable; its contents overwrite the local cache.
// When the remote read fails the local cache is served instead and
// the coordinator reports a degraded status. A missing remote
// document means a fresh account: the local snapshot is seeded
// upstream asynchronously.
func (c *Coordinator) LoadAll(ctx context.Context) (AppData, error) {
	payload, err := c.remote.Read(ctx)
	switch {
	case err == nil:
		RecordRemoteRead("success")
		var data AppData
		if uerr := json.Unmarshal(payload, &data); uerr != nil {
			c.setError(fmt.Errorf("decoding remote snapshot: %w", uerr))
			return c.loadLocal(ctx)
		}
		c.cacheLocally(ctx, data)
		c.setSynced()
		return data, nil

	case errors.Is(err, remote.ErrNotFound):
		RecordRemoteRead("not_found")
		data, lerr := c.loadLocal(ctx)
		if lerr != nil {
			return data, lerr
		}
		c.setSynced()
		c.SaveAll(ctx, data)
		return data, nil

	default:
		c.setError(fmt.Errorf("remote read failed: %w", err))
		RecordRemoteRead("failure")
		return c.loadLocal(ctx)
	}
}

// Subscribe starts listening for remote snapshot changes. The
// callback receives the decoded envelope for every change that did
// not originate from this process.
func (c *Coordinator) Subscribe(ctx context.Context, onChange func(AppData)) error {
	c.onChange = onChange
	stop, err := c.remote.Subscribe(ctx, c.handleRemoteChange, c.handleRemoteError)
	if err != nil {
		c.setError(fmt.Errorf("remote subscribe failed: %w", err))
		return err
	}
	c.stopSub = stop
	return nil
}

// SaveLeads writes the lead collection through to the local store and
// schedules an asynchronous remote write.
func (c *Coordinator) SaveLeads(ctx context.Context, leads []lead.Lead) error {
	return c.saveCollection(ctx, store.CollectionLeads, leads)
}

// SaveInteractions writes the interaction ledger through to the local
// store and schedules an asynchronous remote write.
func (c *Coordinator) SaveInteractions(ctx context.Context, items []interaction.Interaction) error {
	return c.saveCollection(ctx, store.CollectionInteractions, items)
}

// SaveSettings writes the settings document through to the local
// store and schedules an asynchronous remote write.
func (c *Coordinator) SaveSettings(ctx context.Context, s settings.Settings) error {
	return c.saveCollection(ctx, store.CollectionSettings, s)
}

// SaveAll persists the entire envelope, local first, then remote in a
// single merged write.
func (c *Coordinator) SaveAll(ctx context.Context, data AppData) error {
	c.cacheLocally(ctx, data)

	fields := map[string]interface{}{updatedAtField: c.now().UTC()}
	for name, v := range map[string]interface{}{
		store.CollectionLeads:        data.Leads,
		store.CollectionInteractions: data.Interactions,
		store.CollectionSettings:     data.Settings,
	} {
		plain, err := toPlain(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		fields[name] = plain
	}
	c.writeRemote(fields)
	return nil
}

// Refresh re-reads the remote snapshot on demand and replays it
// through the change callback so the repositories reload.
func (c *Coordinator) Refresh(ctx context.Context) (AppData, error) {
	data, err := c.LoadAll(ctx)
	if err != nil {
		return data, err
	}
	if c.onChange != nil {
		c.onChange(data)
	}
	return data, nil
}

// Status reports the current connectivity state.
func (c *Coordinator) Status() StatusInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return StatusInfo{
		Status:       c.status,
		Message:      c.statusMsg,
		LastSyncAt:   c.lastSyncAt,
		LocalWarning: c.localWarning,
	}
}

// Close stops the remote subscription and waits for in-flight remote
// writes to drain.
func (c *Coordinator) Close() {
	if c.stopSub != nil {
		c.stopSub()
	}
	c.writes.Wait()
}

func (c *Coordinator) saveCollection(ctx context.Context, name string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := c.local.Set(ctx, name, raw); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			c.setLocalWarning("local store quota exceeded, changes held in memory")
		}
		// Remote write still goes out; the local cache is a
		// convenience copy, not the source of truth.
		c.writeRemoteCollection(name, raw)
		return err
	}
	c.clearLocalWarning()
	c.writeRemoteCollection(name, raw)
	return nil
}

func (c *Coordinator) writeRemoteCollection(name string, raw []byte) {
	var plain interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		c.logger.Error("re-decoding collection for remote write", zap.String("collection", name), zap.Error(err))
		return
	}
	c.writeRemote(map[string]interface{}{
		name:           plain,
		updatedAtField: c.now().UTC(),
	})
}

// writeRemote performs the merge write on a background goroutine. The
// inflight counter is raised before the goroutine starts so a push
// notification arriving at any point during the write is recognized
// as our own echo.
func (c *Coordinator) writeRemote(fields map[string]interface{}) {
	c.inflight.Add(1)
	c.writes.Add(1)
	go func() {
		defer c.inflight.Add(-1)
		defer c.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
		defer cancel()

		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.remote.Write(ctx, fields)
		})
		if err != nil {
			RecordRemoteWrite("failure")
			c.setError(fmt.Errorf("remote write failed: %w", err))
			return
		}
		RecordRemoteWrite("success")
		c.setSynced()
	}()
}

func (c *Coordinator) handleRemoteChange(payload []byte) {
	if c.inflight.Load() > 0 {
		RecordRemotePush("suppressed")
		c.logger.Debug("suppressing echo of local write")
		return
	}
	var data AppData
	if err := json.Unmarshal(payload, &data); err != nil {
		c.setError(fmt.Errorf("decoding remote change: %w", err))
		return
	}
	RecordRemotePush("applied")
	c.cacheLocally(context.Background(), data)
	c.setSynced()
	if c.onChange != nil {
		c.onChange(data)
	}
}

func (c *Coordinator) handleRemoteError(err error) {
	c.setError(fmt.Errorf("remote subscription error: %w", err))
}

func (c *Coordinator) loadLocal(ctx context.Context) (AppData, error) {
	var data AppData
	if err := c.readLocal(ctx, store.CollectionLeads, &data.Leads); err != nil {
		return data, err
	}
	if err := c.readLocal(ctx, store.CollectionInteractions, &data.Interactions); err != nil {
		return data, err
	}
	if err := c.readLocal(ctx, store.CollectionSettings, &data.Settings); err != nil {
		return data, err
	}
	return data, nil
}

func (c *Coordinator) readLocal(ctx context.Context, name string, dst interface{}) error {
	raw, err := c.local.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("reading local %s: %w", name, err)
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding local %s: %w", name, err)
	}
	return nil
}

func (c *Coordinator) cacheLocally(ctx context.Context, data AppData) {
	for name, v := range map[string]interface{}{
		store.CollectionLeads:        data.Leads,
		store.CollectionInteractions: data.Interactions,
		store.CollectionSettings:     data.Settings,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			c.logger.Error("encoding collection for local cache", zap.String("collection", name), zap.Error(err))
			continue
		}
		if err := c.local.Set(ctx, name, raw); err != nil {
			if errors.Is(err, store.ErrQuotaExceeded) {
				c.setLocalWarning("local store quota exceeded, changes held in memory")
				continue
			}
			c.logger.Warn("caching collection locally", zap.String("collection", name), zap.Error(err))
		}
	}
}

func (c *Coordinator) setSynced() {
	now := c.now()
	c.mu.Lock()
	c.status = StatusSynced
	c.statusMsg = ""
	c.lastSyncAt = &now
	c.mu.Unlock()
	SetSyncStatus(StatusSynced)
}

func (c *Coordinator) setError(err error) {
	c.logger.Warn("sync degraded", zap.Error(err))
	c.mu.Lock()
	c.status = StatusError
	c.statusMsg = err.Error()
	c.mu.Unlock()
	SetSyncStatus(StatusError)
}

func (c *Coordinator) setLocalWarning(msg string) {
	c.mu.Lock()
	c.localWarning = msg
	c.mu.Unlock()
}

func (c *Coordinator) clearLocalWarning() {
	c.mu.Lock()
	c.localWarning = ""
	c.mu.Unlock()
}

func toPlain(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}
