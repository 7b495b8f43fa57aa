package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"milsabores/internal/domain"
	productrepo "milsabores/internal/repository/product"
	userrepo "milsabores/internal/repository/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Apply inserts the bakery catalog and an admin account for manual
// testing. It is idempotent: products upsert by id and the admin is only
// created when the email is free.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger, adminEmail, adminPassword string) error {
	products := productrepo.NewPostgres(pool, logger)
	for _, p := range catalog() {
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	users := userrepo.NewPostgres(pool, logger)
	if err := ensureAdmin(ctx, users, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	for _, u := range sampleUsers() {
		if err := ensureUser(ctx, users, u, "pastel1"); err != nil {
			return fmt.Errorf("ensure user %s: %w", u.Email, err)
		}
	}
	return nil
}

// sampleUsers covers the discount scenarios for manual testing: an over-50
// customer holding the permanent code and an institutional student.
func sampleUsers() []domain.User {
	return []domain.User{
		{
			ID:                   uuid.NewString(),
			NationalID:           "12345678-5",
			FirstName:            "Juan",
			LastName:             "Pérez",
			Email:                "cliente_adulto@gmail.com",
			Birthdate:            "1968-05-15",
			Role:                 domain.RoleCustomer,
			DiscountCode:         "FELICES50",
			HasPermanentDiscount: true,
			Permissions:          []string{"place_orders", "view_products", "permanent_discount"},
		},
		{
			ID:                     uuid.NewString(),
			NationalID:             "7654321-6",
			FirstName:              "María",
			LastName:               "González",
			Email:                  "estudiante@duoc.cl",
			Birthdate:              "2003-09-09",
			Role:                   domain.RoleStudent,
			IsInstitutionalStudent: true,
			Permissions:            []string{"place_orders", "view_products", "student_discount"},
		},
	}
}

func ensureUser(ctx context.Context, users userrepo.Repository, u domain.User, password string) error {
	if _, err := users.GetByEmail(ctx, u.Email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	_, err = users.Create(ctx, u)
	return err
}

func ensureAdmin(ctx context.Context, users userrepo.Repository, email, password string) error {
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		NationalID:   "11111111-1",
		FirstName:    "Admin",
		LastName:     "Mil Sabores",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         domain.RoleAdmin,
		Permissions:  []string{domain.PermissionAll},
	})
	return err
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: "PI001", Name: "Mousse de Chocolate", Description: "Postre individual cremoso y suave, hecho con chocolate de alta calidad, ideal para los amantes del chocolate.", Price: 5000, Image: "/assets/images/mousse_de_chocolate.jpg", Category: "individuales"},
		{ID: "PI002", Name: "Tiramisú Clásico", Description: "Un postre italiano individual con capas de café, mascarpone y cacao, perfecto para finalizar cualquier comida.", Price: 5500, Image: "/assets/images/tiramisu_clasico.jpg", Category: "individuales"},
		{ID: "PSA001", Name: "Torta Sin Azúcar de Naranja", Description: "Torta ligera y deliciosa, endulzada naturalmente, ideal para quienes buscan opciones más saludables.", Price: 48000, Image: "/assets/images/torta_sin_azucar_de_naranja.png", Category: "sin_azucar"},
		{ID: "PSA002", Name: "Cheesecake Sin Azúcar", Description: "Suave y cremoso, este cheesecake es una opción perfecta para disfrutar sin culpa.", Price: 47000, Image: "/assets/images/cheesecake_sin_azucar.png", Category: "sin_azucar"},
		{ID: "PG001", Name: "Brownie Sin Gluten", Description: "Rico y denso, este brownie es perfecto para quienes necesitan evitar el gluten sin sacrificar el sabor.", Price: 4000, Image: "/assets/images/brownie_sin_gluten.jpg", Category: "sin_gluten"},
		{ID: "PG002", Name: "Pan Sin Gluten", Description: "Suave y esponjoso, ideal para sándwiches o para acompañar cualquier comida.", Price: 3500, Image: "/assets/images/pan_sin_gluten.jpg", Category: "sin_gluten"},
		{ID: "PV001", Name: "Torta Vegana de Chocolate", Description: "Torta de chocolate húmeda y deliciosa, hecha sin productos de origen animal, perfecta para veganos.", Price: 50000, Image: "/assets/images/torta_vegana_de_chocolate.jpg", Category: "veganos"},
		{ID: "PV002", Name: "Galletas Veganas de Avena", Description: "Crujientes y sabrosas, estas galletas son una excelente opción para un snack saludable y vegano.", Price: 4500, Image: "/assets/images/galletas_veganas_de_avena.jpg", Category: "veganos"},
		{ID: "TC001", Name: "Torta Circular de Vainilla", Description: "Bizcocho de vainilla clásico relleno con crema pastelera y cubierto con un glaseado dulce, perfecto para cualquier ocasión.", Price: 40000, Image: "/assets/images/torta_circular_de_vainilla.jpg", Category: "circulares"},
		{ID: "TC002", Name: "Torta Circular de Manjar", Description: "Torta tradicional chilena con manjar y nueces, un deleite para los amantes de los sabores dulces y clásicos.", Price: 42000, Image: "/assets/images/torta_circular_de_manjar.jpg", Category: "circulares"},
		{ID: "TQ001", Name: "Torta Cuadrada de Chocolate", Description: "Deliciosa torta de chocolate con capas de ganache y un toque de avellanas. Personalizable con mensajes especiales.", Price: 45000, Image: "/assets/images/torta_cuadrada_de_chocolate.png", Category: "cuadradas"},
		{ID: "TQ002", Name: "Torta Cuadrada de Frutas", Description: "Una mezcla de frutas frescas y crema chantilly sobre un suave bizcocho de vainilla, ideal para celebraciones.", Price: 50000, Image: "/assets/images/torta_cuadrada_de_frutas.png", Category: "cuadradas"},
		{ID: "TE001", Name: "Torta Especial de Cumpleaños", Description: "Diseñada especialmente para celebraciones, personalizable con decoraciones y mensajes únicos.", Price: 55000, Image: "/assets/images/torta_especial_de_cumpleanos.png", Category: "especiales"},
		{ID: "TE002", Name: "Torta Especial de Boda", Description: "Elegante y deliciosa, esta torta está diseñada para ser el centro de atención en cualquier boda.", Price: 60000, Image: "/assets/images/torta_especial_de_boda.png", Category: "especiales"},
		{ID: "PT001", Name: "Empanada de Manzana", Description: "Pastelería tradicional rellena de manzanas especiadas, perfecta para un dulce desayuno o merienda.", Price: 3000, Image: "/assets/images/empanadas_de_manzana.jpg", Category: "tradicional"},
		{ID: "PT002", Name: "Tarta de Santiago", Description: "Tradicional tarta española hecha con almendras, azúcar, y huevos, una delicia para los amantes de los postres clásicos.", Price: 6000, Image: "/assets/images/tarta_de_santiago.jpg", Category: "tradicional"},
	}
}
