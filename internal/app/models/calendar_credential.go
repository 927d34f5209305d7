package models

import "time"

// CalendarCredential stores one encrypted refresh credential per owner
// (doctor or clinic) granting access to the external calendar service.
// Created on the first successful authorization handshake, replaced on
// re-authorization, deleted only on explicit disconnect.
type CalendarCredential struct {
	OwnerID               string    `bson:"ownerId" json:"ownerId"`
	EncryptedRefreshToken []byte    `bson:"encryptedRefreshToken" json:"-"`
	LastRefreshedAt       time.Time `bson:"lastRefreshedAt" json:"lastRefreshedAt"`
	CreatedAt             time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time `bson:"updatedAt" json:"updatedAt"`
}
