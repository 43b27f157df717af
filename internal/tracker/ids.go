package tracker

// idCounter монотонный счётчик идентификаторов. Идентификаторы растут в
// порядке создания и не повторяются даже при быстрых последовательных
// добавлениях, в отличие от таймстампов
type idCounter struct {
	last int
}

// observe подтягивает счётчик до максимального id, встреченного при загрузке
func (c *idCounter) observe(id int) {
	if id > c.last {
		c.last = id
	}
}

func (c *idCounter) next() int {
	c.last++
	return c.last
}
