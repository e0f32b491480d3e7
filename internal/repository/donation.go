package repository

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type DonationRepository struct {
	db *pgxpool.Pool
}

func NewDonationRepository(db *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{db: db}
}

const donationColumns = `id, name, email, amount, provider, account_number, ifsc, transaction_ref, invoice_path, qr_path, is_verified, verified_by, verified_at, created_at`

func scanDonation(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.Amount,
		&d.Provider,
		&d.AccountNumber,
		&d.IFSC,
		&d.TransactionRef,
		&d.InvoicePath,
		&d.QRPath,
		&d.IsVerified,
		&d.VerifiedBy,
		&d.VerifiedAt,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) CreateDonation(ctx context.Context, d *models.Donation) error {
	logger.Log.Info("Создание пожертвования (repo)", zap.String("email", d.Email), zap.Float64("amount", d.Amount))
	query := `
	INSERT INTO donations (name, email, amount, provider, account_number, ifsc, transaction_ref, invoice_path, qr_path)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		d.Name,
		d.Email,
		d.Amount,
		d.Provider,
		d.AccountNumber,
		d.IFSC,
		d.TransactionRef,
		d.InvoicePath,
		d.QRPath,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания пожертвования (repo)", zap.Error(err))
	}
	return err
}

func (r *DonationRepository) GetDonationByID(ctx context.Context, id int) (*models.Donation, error) {
	logger.Log.Debug("Получение пожертвования по ID (repo)", zap.Int("donation_id", id))
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	return scanDonation(r.db.QueryRow(ctx, query, id))
}

// ListDonations возвращает записи по фильтрам, новые сверху.
func (r *DonationRepository) ListDonations(ctx context.Context, filter *models.DonationFilter) ([]*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE 1=1`
	var args []interface{}
	argNum := 1

	if filter != nil {
		if filter.Email != "" {
			query += fmt.Sprintf(" AND email ILIKE $%d", argNum)
			args = append(args, "%"+filter.Email+"%")
			argNum++
		}
		if filter.Provider != "" {
			query += fmt.Sprintf(" AND provider ILIKE $%d", argNum)
			args = append(args, "%"+filter.Provider+"%")
			argNum++
		}
		if filter.StartDate != nil {
			query += fmt.Sprintf(" AND created_at >= $%d", argNum)
			args = append(args, *filter.StartDate)
			argNum++
		}
		if filter.EndDate != nil {
			query += fmt.Sprintf(" AND created_at < $%d", argNum)
			args = append(args, *filter.EndDate)
			argNum++
		}
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка выборки пожертвований (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var list []*models.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			logger.Log.Error("Ошибка сканирования пожертвования (repo)", zap.Error(err))
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// SetVerification проставляет флаг верификации. При снятии флага штампы
// verified_by/verified_at намеренно не очищаются — остаются историей.
func (r *DonationRepository) SetVerification(ctx context.Context, id int, verified bool, adminID int, at time.Time) error {
	logger.Log.Info("Обновление верификации (repo)", zap.Int("donation_id", id), zap.Bool("verified", verified))

	if verified {
		ct, err := r.exec(ctx,
			`UPDATE donations SET is_verified = true, verified_by = $2, verified_at = $3 WHERE id = $1`,
			id, adminID, at,
		)
		if err == nil && ct == 0 {
			return ErrNoRows
		}
		return err
	}

	ct, err := r.exec(ctx, `UPDATE donations SET is_verified = false WHERE id = $1`, id)
	if err == nil && ct == 0 {
		return ErrNoRows
	}
	return err
}

func (r *DonationRepository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка запроса к donations (repo)", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}
