package middleware

import "github.com/gofiber/fiber/v2"

const maxPageLimit = 100

// Pagination reads page and limit from the query string. limit defaults to 10
// and is capped at 100.
func Pagination(c *fiber.Ctx) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}
