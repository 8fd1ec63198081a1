package entity

// City ciudad del catálogo de Kaspi (tabla kaspi_cities). ID es el cityId de Kaspi, ej. 750000000 (Almaty).
type City struct {
	ID       string
	Name     string
	Region   string
	IsActive bool
}
