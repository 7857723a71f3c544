package catalog

import (
	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/shopspring/decimal"
)

func loc(pt, en, es string) Localized {
	return Localized{i18n.Portuguese: pt, i18n.English: en, i18n.Spanish: es}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func was(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// DefaultCategories is the built-in section list.
func DefaultCategories() []Category {
	return []Category{
		{ID: enum.CategoryPizza, Slug: enum.CategoryPizza, Name: loc("Brotinhos", "Mini Pizzas", "Mini Pizzas"), DisplayOrder: 1},
		{ID: enum.CategoryDrink, Slug: enum.CategoryDrink, Name: loc("Bebidas", "Drinks", "Bebidas"), DisplayOrder: 2},
		{ID: enum.CategoryCombo, Slug: enum.CategoryCombo, Name: loc("Combos", "Combos", "Combos"), DisplayOrder: 3},
		{ID: enum.CategoryPromo, Slug: enum.CategoryPromo, Name: loc("Promoções", "Deals", "Ofertas"), DisplayOrder: 4},
	}
}

// DefaultAddons is the built-in add-on list.
func DefaultAddons() []Addon {
	return []Addon{
		{ID: "extra-cheese", Name: loc("Queijo Extra", "Extra Cheese", "Queso Extra"), Price: price("3.00")},
		{ID: "olives", Name: loc("Azeitonas", "Olives", "Aceitunas"), Price: price("2.00")},
		{ID: "egg", Name: loc("Ovo", "Egg", "Huevo"), Price: price("2.50")},
		{ID: "corn", Name: loc("Milho", "Corn", "Maíz"), Price: price("2.00")},
		{ID: "tomato", Name: loc("Tomate", "Tomato", "Tomate"), Price: price("1.50")},
		{ID: "onion", Name: loc("Cebola", "Onion", "Cebolla"), Price: price("1.50")},
		{ID: "oregano", Name: loc("Orégano Extra", "Extra Oregano", "Orégano Extra"), Price: price("0.50")},
	}
}

// DefaultProducts is the built-in product list in display order.
func DefaultProducts() []Product {
	soda := loc("Refrigerante gelado", "Cold soda", "Refresco frío")
	return []Product{
		{
			ID: "pizza-mussarela", CategoryID: enum.CategoryPizza,
			Name: loc("Brotinho de Mussarela", "Mozzarella Mini Pizza", "Mini Pizza de Mozzarella"),
			Description: loc(
				"Molho de tomate, mussarela de primeira qualidade e orégano",
				"Tomato sauce, premium mozzarella and oregano",
				"Salsa de tomate, mozzarella de primera calidad y orégano",
			),
			Price: price("15.90"), ImageURL: "/pizzas/mussarela.jpg", HasAddons: true,
		},
		{
			ID: "pizza-calabresa", CategoryID: enum.CategoryPizza,
			Name: loc("Brotinho de Calabresa", "Pepperoni Mini Pizza", "Mini Pizza de Calabresa"),
			Description: loc(
				"Molho de tomate, calabresa especial, cebola e mussarela",
				"Tomato sauce, special pepperoni, onion and mozzarella",
				"Salsa de tomate, calabresa especial, cebolla y mozzarella",
			),
			Price: price("17.90"), ImageURL: "/pizzas/calabresa.jpg", HasAddons: true,
		},
		{
			ID: "pizza-mista", CategoryID: enum.CategoryPizza,
			Name: loc("Brotinho Mista", "Ham & Cheese Mini Pizza", "Mini Pizza Mixta"),
			Description: loc(
				"Molho de tomate, presunto, mussarela e orégano",
				"Tomato sauce, ham, mozzarella and oregano",
				"Salsa de tomate, jamón, mozzarella y orégano",
			),
			Price: price("16.90"), ImageURL: "/pizzas/mista.jpg", HasAddons: true,
		},
		{
			ID: "pizza-milho", CategoryID: enum.CategoryPizza,
			Name: loc("Brotinho de Milho", "Corn Mini Pizza", "Mini Pizza de Maíz"),
			Description: loc(
				"Molho de tomate, milho verde, mussarela e orégano",
				"Tomato sauce, sweet corn, mozzarella and oregano",
				"Salsa de tomate, maíz, mozzarella y orégano",
			),
			Price: price("16.90"), ImageURL: "/pizzas/milho.jpg", HasAddons: true,
		},
		{
			ID: "drink-coca", CategoryID: enum.CategoryDrink,
			Name:        loc("Coca-Cola 250ml", "Coca-Cola 250ml", "Coca-Cola 250ml"),
			Description: soda, Price: price("4.50"), ImageURL: "/drinks/coca.jpg",
		},
		{
			ID: "drink-guarana", CategoryID: enum.CategoryDrink,
			Name:        loc("Guaraná 250ml", "Guaraná 250ml", "Guaraná 250ml"),
			Description: soda, Price: price("4.00"), ImageURL: "/drinks/guarana.jpg",
		},
		{
			ID: "drink-fanta", CategoryID: enum.CategoryDrink,
			Name:        loc("Fanta Laranja 250ml", "Fanta Orange 250ml", "Fanta Naranja 250ml"),
			Description: soda, Price: price("4.00"), ImageURL: "/drinks/fanta.jpg",
		},
		{
			ID: "drink-water", CategoryID: enum.CategoryDrink,
			Name:        loc("Água Mineral 500ml", "Mineral Water 500ml", "Agua Mineral 500ml"),
			Description: loc("Água mineral gelada", "Cold mineral water", "Agua mineral fría"),
			Price:       price("3.00"), ImageURL: "/drinks/water.jpg",
		},
		{
			ID: "drink-lemon", CategoryID: enum.CategoryDrink,
			Name:        loc("Refrigerante Limão 250ml", "Lemon Soda 250ml", "Refresco de Limón 250ml"),
			Description: loc("Refrigerante gelado sabor limão", "Cold lemon flavored soda", "Refresco frío sabor limón"),
			Price:       price("4.00"), ImageURL: "/drinks/lemon.jpg",
		},
		{
			ID: "combo-1", CategoryID: enum.CategoryCombo,
			Name: loc("Combo Duplo", "Double Combo", "Combo Doble"),
			Description: loc(
				"2 Brotinhos + 2 Refrigerantes 250ml",
				"2 Mini Pizzas + 2 Sodas 250ml",
				"2 Mini Pizzas + 2 Refrescos 250ml",
			),
			Price: price("35.00"), OriginalPrice: was("40.00"), ImageURL: "/combos/combo1.jpg",
			Items: []string{"2 Brotinhos", "2 Bebidas 250ml"},
		},
		{
			ID: "combo-2", CategoryID: enum.CategoryCombo,
			Name: loc("Combo Família", "Family Combo", "Combo Familiar"),
			Description: loc(
				"4 Brotinhos + 4 Refrigerantes 250ml",
				"4 Mini Pizzas + 4 Sodas 250ml",
				"4 Mini Pizzas + 4 Refrescos 250ml",
			),
			Price: price("65.00"), OriginalPrice: was("75.00"), ImageURL: "/combos/combo2.jpg",
			Items: []string{"4 Brotinhos", "4 Bebidas 250ml"},
		},
		{
			ID: "promo-1", CategoryID: enum.CategoryPromo,
			Name: loc("Promoção Especial", "Special Deal", "Oferta Especial"),
			Description: loc(
				"3 Brotinhos de Mussarela por um preço especial!",
				"3 Mozzarella Mini Pizzas for a special price!",
				"¡3 Mini Pizzas de Mozzarella a precio especial!",
			),
			Price: price("39.90"), OriginalPrice: was("47.70"), ImageURL: "/promos/promo1.jpg",
		},
		{
			ID: "promo-2", CategoryID: enum.CategoryPromo,
			Name: loc("Terça da Pizza", "Pizza Tuesday", "Martes de Pizza"),
			Description: loc(
				"Qualquer brotinho + bebida por apenas R$ 18,90!",
				"Any mini pizza + drink for only R$ 18.90!",
				"¡Cualquier mini pizza + bebida por solo R$ 18,90!",
			),
			Price: price("18.90"), OriginalPrice: was("22.40"), ImageURL: "/promos/promo2.jpg",
		},
	}
}

// Default returns the built-in menu.
func Default() *Catalog {
	c, err := New(DefaultCategories(), DefaultProducts(), DefaultAddons())
	if err != nil {
		panic("catalog: invalid default menu: " + err.Error())
	}
	return c
}
