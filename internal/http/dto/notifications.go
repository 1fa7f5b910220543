package dto

import "notifycenter/internal/model"

type CreateNotificationRequest struct {
	Message        string `json:"message"`
	Kind           string `json:"kind"`
	DismissAfterMS *int64 `json:"dismiss_after_ms"`
}

type ListNotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
}

type HistoryResponse struct {
	Entries []model.HistoryEntry `json:"entries"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
