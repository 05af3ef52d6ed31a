package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"trainerdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var trainerColumnNames = []string{
	"id", "business_name", "subdomain", "bio", "phone", "timezone", "profile_photo",
	"subscription_tier", "sms_credits", "email_credits", "created_at", "updated_at",
}

type TrainerRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      TrainerRepository
	trainerID uuid.UUID
	context   context.Context
}

func (suite *TrainerRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTrainerRepo(mock)
	suite.trainerID = uuid.New()
	suite.context = context.Background()
}

func (suite *TrainerRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTrainerRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TrainerRepoTestSuite))
}

func (suite *TrainerRepoTestSuite) newSignup() (*models.Trainer, *models.User) {
	trainer := &models.Trainer{
		ID:               suite.trainerID,
		BusinessName:     "Acme Gym",
		Subdomain:        "acme-gym",
		Timezone:         models.DefaultTimezone,
		SubscriptionTier: models.TierFree,
		SMSCredits:       models.DefaultSMSCredits,
		EmailCredits:     models.DefaultEmailCredits,
	}
	user := &models.User{
		ID:           uuid.New(),
		TrainerID:    &suite.trainerID,
		Email:        "coach@acme.test",
		Name:         "Coach Carter",
		PasswordHash: "$2a$10$hash",
		Role:         models.RolePrimaryTrainer,
	}
	return trainer, user
}

func (suite *TrainerRepoTestSuite) expectTrainerInsert(t *models.Trainer) *pgxmock.ExpectedExec {
	return suite.mock.ExpectExec(`INSERT INTO trainers \(id, business_name, subdomain, timezone, subscription_tier, sms_credits, email_credits, created_at, updated_at\)`).
		WithArgs(t.ID, t.BusinessName, t.Subdomain, t.Timezone, t.SubscriptionTier, t.SMSCredits, t.EmailCredits)
}

func (suite *TrainerRepoTestSuite) expectUserInsert(u *models.User) *pgxmock.ExpectedExec {
	return suite.mock.ExpectExec(`INSERT INTO users \(id, email, name, password_hash, role, trainer_id, created_at, updated_at\)`).
		WithArgs(u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.TrainerID)
}

func (suite *TrainerRepoTestSuite) TestCreateWithPrimaryUser_Success() {
	trainer, user := suite.newSignup()

	suite.mock.ExpectBegin()
	suite.expectTrainerInsert(trainer).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.expectUserInsert(user).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateWithPrimaryUser(suite.context, trainer, user)
	assert.NoError(suite.T(), err)
}

func (suite *TrainerRepoTestSuite) TestCreateWithPrimaryUser_SubdomainTaken() {
	trainer, user := suite.newSignup()

	suite.mock.ExpectBegin()
	suite.expectTrainerInsert(trainer).WillReturnError(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "trainers_subdomain_key",
	})
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithPrimaryUser(suite.context, trainer, user)
	assert.ErrorIs(suite.T(), err, models.ErrSubdomainTaken)
	assert.NotErrorIs(suite.T(), err, models.ErrEmailTaken)
}

func (suite *TrainerRepoTestSuite) TestCreateWithPrimaryUser_EmailTaken() {
	trainer, user := suite.newSignup()

	suite.mock.ExpectBegin()
	suite.expectTrainerInsert(trainer).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.expectUserInsert(user).WillReturnError(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
	})
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithPrimaryUser(suite.context, trainer, user)
	assert.ErrorIs(suite.T(), err, models.ErrEmailTaken)
}

func (suite *TrainerRepoTestSuite) TestCreateWithPrimaryUser_OtherErrorPassesThrough() {
	trainer, user := suite.newSignup()
	dbErr := errors.New("database connection failed")

	suite.mock.ExpectBegin()
	suite.expectTrainerInsert(trainer).WillReturnError(dbErr)
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithPrimaryUser(suite.context, trainer, user)
	assert.ErrorIs(suite.T(), err, dbErr)
	assert.NotErrorIs(suite.T(), err, models.ErrSubdomainTaken)
}

func (suite *TrainerRepoTestSuite) TestCreateWithPrimaryUser_BeginFails() {
	trainer, user := suite.newSignup()
	suite.mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := suite.repo.CreateWithPrimaryUser(suite.context, trainer, user)
	assert.ErrorContains(suite.T(), err, "begin transaction")
}

func (suite *TrainerRepoTestSuite) TestGetBySubdomain_Found() {
	now := time.Now()
	bio := "Strength coach"
	rows := pgxmock.NewRows(trainerColumnNames).
		AddRow(suite.trainerID, "Acme Gym", "acme-gym", &bio, nil, "America/New_York", nil,
			models.TierFree, 10, 50, now, now)

	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM trainers WHERE subdomain = $1`)).
		WithArgs("acme-gym").
		WillReturnRows(rows)

	trainer, err := suite.repo.GetBySubdomain(suite.context, "acme-gym")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.trainerID, trainer.ID)
	assert.Equal(suite.T(), "acme-gym", trainer.Subdomain)
	assert.Equal(suite.T(), "Strength coach", *trainer.Bio)
	assert.Nil(suite.T(), trainer.Phone)
	assert.Equal(suite.T(), 50, trainer.EmailCredits)
}

func (suite *TrainerRepoTestSuite) TestGetBySubdomain_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM trainers WHERE subdomain = $1`)).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	trainer, err := suite.repo.GetBySubdomain(suite.context, "ghost")
	assert.Nil(suite.T(), trainer)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *TrainerRepoTestSuite) TestGetByID_DatabaseError() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM trainers WHERE id = $1`)).
		WithArgs(suite.trainerID).
		WillReturnError(errors.New("connection reset"))

	_, err := suite.repo.GetByID(suite.context, suite.trainerID)
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *TrainerRepoTestSuite) TestSubdomainExists() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM trainers WHERE subdomain = $1)`)).
		WithArgs("acme-gym").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM trainers WHERE subdomain = $1)`)).
		WithArgs("acme-gym-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := suite.repo.SubdomainExists(suite.context, "acme-gym")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), exists)

	exists, err = suite.repo.SubdomainExists(suite.context, "acme-gym-2")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), exists)
}

func (suite *TrainerRepoTestSuite) TestUpdateProfile_LeavesSubdomainAlone() {
	now := time.Now()
	phone := "+15551234567"
	update := &models.ProfileUpdate{
		TrainerID:    suite.trainerID,
		BusinessName: "Acme Performance",
		Phone:        &phone,
		Timezone:     "Europe/London",
	}
	rows := pgxmock.NewRows(trainerColumnNames).
		AddRow(suite.trainerID, "Acme Performance", "acme-gym", nil, &phone, "Europe/London", nil,
			models.TierFree, 10, 50, now, now)

	suite.mock.ExpectQuery(`UPDATE trainers\s+SET business_name = \$1, bio = \$2, phone = \$3, timezone = \$4, profile_photo = \$5, updated_at = NOW\(\)\s+WHERE id = \$6`).
		WithArgs(update.BusinessName, update.Bio, update.Phone, update.Timezone, update.ProfilePhoto, update.TrainerID).
		WillReturnRows(rows)

	trainer, err := suite.repo.UpdateProfile(suite.context, update)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Performance", trainer.BusinessName)
	assert.Equal(suite.T(), "acme-gym", trainer.Subdomain)
}

func (suite *TrainerRepoTestSuite) TestUpdateProfile_NotFound() {
	update := &models.ProfileUpdate{TrainerID: suite.trainerID, BusinessName: "X Gym", Timezone: "UTC"}
	suite.mock.ExpectQuery(`UPDATE trainers`).
		WithArgs(update.BusinessName, update.Bio, update.Phone, update.Timezone, update.ProfilePhoto, update.TrainerID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.UpdateProfile(suite.context, update)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *TrainerRepoTestSuite) TestListIDs() {
	id1, id2 := uuid.New(), uuid.New()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM trainers ORDER BY created_at, id LIMIT $1 OFFSET $2`)).
		WithArgs(100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id1).AddRow(id2))

	ids, err := suite.repo.ListIDs(suite.context, 100, 0)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []uuid.UUID{id1, id2}, ids)
}
