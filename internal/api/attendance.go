package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mparedes/rollbook/internal/models"
)

func (c *Client) AttendancesByCourse(ctx context.Context, courseID int64) ([]models.Attendance, error) {
	var out []models.Attendance
	err := c.do(ctx, "attendances_by_course", http.MethodGet,
		fmt.Sprintf("/attendances/course/%d", courseID), nil, &out)
	return out, err
}

func (c *Client) AttendancesByStudent(ctx context.Context, studentID int64) ([]models.Attendance, error) {
	var out []models.Attendance
	err := c.do(ctx, "attendances_by_student", http.MethodGet,
		fmt.Sprintf("/attendances/student/%d", studentID), nil, &out)
	return out, err
}

// CreateAttendance persists a new record; the returned copy carries the
// server-assigned id.
func (c *Client) CreateAttendance(ctx context.Context, rec models.Attendance) (models.Attendance, error) {
	var out models.Attendance
	err := c.do(ctx, "create_attendance", http.MethodPost, "/attendances", rec, &out)
	return out, err
}

func (c *Client) UpdateAttendance(ctx context.Context, id int64, rec models.Attendance) (models.Attendance, error) {
	var out models.Attendance
	err := c.do(ctx, "update_attendance", http.MethodPut,
		fmt.Sprintf("/attendances/%d", id), rec, &out)
	return out, err
}

// AttendancePercentage is the server-computed percentage over the whole
// course history, independent of local pending edits.
func (c *Client) AttendancePercentage(ctx context.Context, studentID, courseID int64) (float64, error) {
	var out float64
	err := c.do(ctx, "attendance_percentage", http.MethodGet,
		fmt.Sprintf("/attendances/student/%d/course/%d/percentage", studentID, courseID), nil, &out)
	return out, err
}
