package query

import (
	"context"

	"github.com/goliatone/go-linkbridge/core"
)

type BridgeReader interface {
	State() core.InitState
	InitialURI(ctx context.Context) (*string, error)
	InitialDeepLink(ctx context.Context) (*core.ResolvedLink, error)
	LastLinkData(ctx context.Context) (*core.ResolvedLink, error)
	CurrentSessionID(ctx context.Context) (string, error)
	HasActiveSession(ctx context.Context) (bool, error)
	SessionState(ctx context.Context) (core.SessionState, error)
	InstallationID(ctx context.Context) (string, error)
	InstallationInfo(ctx context.Context) (*core.InstallationInfo, error)
	IsReinstall(ctx context.Context) (bool, error)
}

type InitialURIQuery struct {
	reader BridgeReader
}

func NewInitialURIQuery(reader BridgeReader) *InitialURIQuery {
	return &InitialURIQuery{reader: reader}
}

func (q *InitialURIQuery) Query(ctx context.Context, _ InitialURIMessage) (*string, error) {
	if q == nil || q.reader == nil {
		return nil, missingReaderError("initial uri reader")
	}
	return q.reader.InitialURI(ctx)
}

type InitialDeepLinkQuery struct {
	reader BridgeReader
}

func NewInitialDeepLinkQuery(reader BridgeReader) *InitialDeepLinkQuery {
	return &InitialDeepLinkQuery{reader: reader}
}

func (q *InitialDeepLinkQuery) Query(ctx context.Context, _ InitialDeepLinkMessage) (*core.ResolvedLink, error) {
	if q == nil || q.reader == nil {
		return nil, missingReaderError("initial deep link reader")
	}
	return q.reader.InitialDeepLink(ctx)
}

type LastLinkDataQuery struct {
	reader BridgeReader
}

func NewLastLinkDataQuery(reader BridgeReader) *LastLinkDataQuery {
	return &LastLinkDataQuery{reader: reader}
}

func (q *LastLinkDataQuery) Query(ctx context.Context, _ LastLinkDataMessage) (*core.ResolvedLink, error) {
	if q == nil || q.reader == nil {
		return nil, missingReaderError("last link data reader")
	}
	return q.reader.LastLinkData(ctx)
}

type CurrentSessionIDQuery struct {
	reader BridgeReader
}

func NewCurrentSessionIDQuery(reader BridgeReader) *CurrentSessionIDQuery {
	return &CurrentSessionIDQuery{reader: reader}
}

func (q *CurrentSessionIDQuery) Query(ctx context.Context, _ CurrentSessionIDMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", missingReaderError("session reader")
	}
	return q.reader.CurrentSessionID(ctx)
}

type HasActiveSessionQuery struct {
	reader BridgeReader
}

func NewHasActiveSessionQuery(reader BridgeReader) *HasActiveSessionQuery {
	return &HasActiveSessionQuery{reader: reader}
}

func (q *HasActiveSessionQuery) Query(ctx context.Context, _ HasActiveSessionMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, missingReaderError("session reader")
	}
	return q.reader.HasActiveSession(ctx)
}

type SessionStateQuery struct {
	reader BridgeReader
}

func NewSessionStateQuery(reader BridgeReader) *SessionStateQuery {
	return &SessionStateQuery{reader: reader}
}

func (q *SessionStateQuery) Query(ctx context.Context, _ SessionStateMessage) (core.SessionState, error) {
	if q == nil || q.reader == nil {
		return "", missingReaderError("session reader")
	}
	return q.reader.SessionState(ctx)
}

type InstallationIDQuery struct {
	reader BridgeReader
}

func NewInstallationIDQuery(reader BridgeReader) *InstallationIDQuery {
	return &InstallationIDQuery{reader: reader}
}

func (q *InstallationIDQuery) Query(ctx context.Context, _ InstallationIDMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", missingReaderError("installation reader")
	}
	return q.reader.InstallationID(ctx)
}

type InstallationInfoQuery struct {
	reader BridgeReader
}

func NewInstallationInfoQuery(reader BridgeReader) *InstallationInfoQuery {
	return &InstallationInfoQuery{reader: reader}
}

func (q *InstallationInfoQuery) Query(ctx context.Context, _ InstallationInfoMessage) (*core.InstallationInfo, error) {
	if q == nil || q.reader == nil {
		return nil, missingReaderError("installation reader")
	}
	return q.reader.InstallationInfo(ctx)
}

type IsReinstallQuery struct {
	reader BridgeReader
}

func NewIsReinstallQuery(reader BridgeReader) *IsReinstallQuery {
	return &IsReinstallQuery{reader: reader}
}

func (q *IsReinstallQuery) Query(ctx context.Context, _ IsReinstallMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, missingReaderError("installation reader")
	}
	return q.reader.IsReinstall(ctx)
}

type BridgeStateQuery struct {
	reader BridgeReader
}

func NewBridgeStateQuery(reader BridgeReader) *BridgeStateQuery {
	return &BridgeStateQuery{reader: reader}
}

func (q *BridgeStateQuery) Query(_ context.Context, _ BridgeStateMessage) (core.InitState, error) {
	if q == nil || q.reader == nil {
		return "", missingReaderError("bridge reader")
	}
	return q.reader.State(), nil
}

type ListEventsQuery struct {
	journal core.EventJournalReader
}

func NewListEventsQuery(journal core.EventJournalReader) *ListEventsQuery {
	return &ListEventsQuery{journal: journal}
}

func (q *ListEventsQuery) Query(ctx context.Context, msg ListEventsMessage) (core.EventPage, error) {
	if q == nil || q.journal == nil {
		return core.EventPage{}, missingReaderError("event journal")
	}
	return q.journal.List(ctx, msg.Filter.Normalized())
}

type LatestEventQuery struct {
	journal core.EventJournalReader
}

func NewLatestEventQuery(journal core.EventJournalReader) *LatestEventQuery {
	return &LatestEventQuery{journal: journal}
}

func (q *LatestEventQuery) Query(ctx context.Context, msg LatestEventMessage) (core.EventRecord, error) {
	if q == nil || q.journal == nil {
		return core.EventRecord{}, missingReaderError("event journal")
	}
	return q.journal.Latest(ctx, msg.Channel)
}
