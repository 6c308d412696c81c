package domain

import "time"

type NoticeKind string

const (
	NoticeSavedOffline      NoticeKind = "saved_offline"
	NoticeDelivered         NoticeKind = "delivered"
	NoticeSynced            NoticeKind = "synced"
	NoticeSyncFailed        NoticeKind = "sync_failed"
	NoticePersistenceFailed NoticeKind = "persistence_failed"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}
