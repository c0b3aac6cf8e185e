package services

import (
	"errors"

	"player-guess-system/models"

	"gorm.io/gorm"
)

type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// ensureSession loads or lazily creates the ledger row for a session.
// The ID is the client-minted session UUID, so insert-if-absent keyed on
// it is safe under concurrent first-guess races.
func ensureSession(tx *gorm.DB, sessionID string) (*models.GameSession, error) {
	var session models.GameSession
	err := tx.Where("id = ?", sessionID).First(&session).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session = models.GameSession{ID: sessionID}
	if err := tx.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetStats returns the ledger row for a session, or ErrSessionNotFound
// if the session has never scored a round.
func (s *SessionService) GetStats(sessionID string) (*models.GameSession, error) {
	var session models.GameSession
	if err := s.DB.Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// SetNickname creates the session row if needed and sets its nickname.
func (s *SessionService) SetNickname(sessionID, nickname string) (*models.GameSession, error) {
	var session *models.GameSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = ensureSession(tx, sessionID)
		if err != nil {
			return err
		}
		session.Nickname = nickname
		return tx.Save(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ResetStreak zeroes a session's current streak. BestStreak and
// TotalScore are kept — this is the admin reset, not a wipe.
func (s *SessionService) ResetStreak(sessionID string) (*models.GameSession, error) {
	var session models.GameSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		session.Streak = 0
		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}
