package db

import (
	"context"

	"studyhub/internal/models"
)

// CreateContact stores a contact form submission.
func (d *DB) CreateContact(ctx context.Context, c *models.Contact) error {
	query := `
		INSERT INTO contacts (full_name, phone_number, email, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		c.FullName,
		c.PhoneNumber,
		c.Email,
		c.Content,
	).Scan(&c.ID, &c.CreatedAt)
}

// ListContacts returns contact submissions newest first.
func (d *DB) ListContacts(ctx context.Context, limit, offset int) ([]models.Contact, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, full_name, phone_number, email, content, created_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FullName, &c.PhoneNumber, &c.Email, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
