package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/domain/shared"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func movementColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "organization_id", "created_by",
		"project_id", "movement_date", "description", "amount", "currency_id",
		"wallet_id", "type_id", "category_id", "subcategory_id", "exchange_rate",
		"conversion_group_id", "transfer_group_id", "contact_id", "member_id",
	}
}

func addMovementRow(rows *sqlmock.Rows, id, organizationID uuid.UUID, amount string, conversionGroupID *uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, now, now, organizationID, uuid.New(),
		nil, now, "ledger row", decimal.RequireFromString(amount), uuid.New(),
		uuid.New(), uuid.New(), nil, nil, nil,
		conversionGroupID, nil, nil, nil,
	)
}

func TestGormMovementRepository_FindByIDForOrganization(t *testing.T) {
	t.Run("finds movement within organization", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		movementID := uuid.New()
		organizationID := uuid.New()

		rows := addMovementRow(sqlmock.NewRows(movementColumns()), movementID, organizationID, "100.00", nil)
		mock.ExpectQuery(`SELECT \* FROM "movements" WHERE organization_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(organizationID, movementID, 1).
			WillReturnRows(rows)

		m, err := repo.FindByIDForOrganization(context.Background(), movementID, organizationID)

		assert.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, movementID, m.ID)
		assert.Equal(t, organizationID, m.OrganizationID)
		assert.True(t, m.Amount.Equal(decimal.RequireFromString("100.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing movement", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		movementID := uuid.New()
		organizationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "movements" WHERE organization_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(organizationID, movementID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		m, err := repo.FindByIDForOrganization(context.Background(), movementID, organizationID)

		assert.Nil(t, m)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_FindGroup(t *testing.T) {
	t.Run("returns rows ordered by amount descending", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		organizationID := uuid.New()
		groupID := uuid.New()
		egressID := uuid.New()
		ingressID := uuid.New()

		rows := sqlmock.NewRows(movementColumns())
		rows = addMovementRow(rows, egressID, organizationID, "1000.00", &groupID)
		rows = addMovementRow(rows, ingressID, organizationID, "850.00", &groupID)

		mock.ExpectQuery(`SELECT \* FROM "movements" WHERE organization_id = \$1 AND \(conversion_group_id = \$2 OR transfer_group_id = \$3\) ORDER BY amount DESC`).
			WithArgs(organizationID, groupID, groupID).
			WillReturnRows(rows)

		group, err := repo.FindGroup(context.Background(), groupID, organizationID)

		assert.NoError(t, err)
		require.Len(t, group, 2)
		assert.Equal(t, egressID, group[0].ID)
		assert.Equal(t, ingressID, group[1].ID)
		assert.True(t, group[0].Amount.GreaterThan(group[1].Amount))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_SaveGroup(t *testing.T) {
	t.Run("saves both rows in one transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		organizationID := uuid.New()
		groupID := uuid.New()
		egress := newTestMovement(t, organizationID, "1000.00")
		ingress := newTestMovement(t, organizationID, "850.00")
		require.NoError(t, egress.AssignConversionGroup(groupID))
		require.NoError(t, ingress.AssignConversionGroup(groupID))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "movements" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "movements" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveGroup(context.Background(), egress, ingress)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the second row fails", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		organizationID := uuid.New()
		groupID := uuid.New()
		egress := newTestMovement(t, organizationID, "1000.00")
		ingress := newTestMovement(t, organizationID, "850.00")
		require.NoError(t, egress.AssignTransferGroup(groupID))
		require.NoError(t, ingress.AssignTransferGroup(groupID))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "movements" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "movements" SET`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.SaveGroup(context.Background(), egress, ingress)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_DeleteForOrganization(t *testing.T) {
	t.Run("deletes existing movement", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		movementID := uuid.New()
		organizationID := uuid.New()

		mock.ExpectExec(`DELETE FROM "movements" WHERE organization_id = \$1 AND id = \$2`).
			WithArgs(organizationID, movementID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteForOrganization(context.Background(), movementID, organizationID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		mock.ExpectExec(`DELETE FROM "movements" WHERE organization_id = \$1 AND id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForOrganization(context.Background(), uuid.New(), uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormMovementRepository_CountForOrganization(t *testing.T) {
	t.Run("counts with filters and without pagination", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		organizationID := uuid.New()
		walletID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "movements" WHERE organization_id = \$1 AND wallet_id = \$2`).
			WithArgs(organizationID, walletID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountForOrganization(context.Background(), organizationID, movement.ListFilter{
			WalletID: &walletID,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func newTestMovement(t *testing.T, organizationID uuid.UUID, amount string) *movement.Movement {
	t.Helper()
	m, err := movement.NewMovement(organizationID, movement.Params{
		MovementDate: time.Now(),
		CreatedBy:    uuid.New(),
		Description:  "test row",
		Amount:       decimal.RequireFromString(amount),
		CurrencyID:   uuid.New(),
		WalletID:     uuid.New(),
		TypeID:       uuid.New(),
	})
	require.NoError(t, err)
	return m
}
