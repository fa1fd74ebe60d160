package employee

import (
	"errors"
	"time"
)

type Employee struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	PhoneNo    string     `json:"phoneNo"`
	Salary     int64      `json:"salary"`
	Department Department `json:"department"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

var ErrNotFound = errors.New("employee not found")

// UpsertRequest is the payload for both create and update.
type UpsertRequest struct {
	Name       string     `json:"name" binding:"required,min=2,max=120"`
	Email      string     `json:"email" binding:"required,email"`
	PhoneNo    string     `json:"phoneNo" binding:"required,min=5,max=20"`
	Salary     int64      `json:"salary" binding:"min=0"`
	Department Department `json:"department" binding:"required,department"`
}

func NewFromRequest(req UpsertRequest) Employee {
	now := time.Now().UTC()

	return Employee{
		Name:       req.Name,
		Email:      req.Email,
		PhoneNo:    req.PhoneNo,
		Salary:     req.Salary,
		Department: req.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
