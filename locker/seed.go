package locker

import "time"

// Bootstrap data inserted once when the user collection is empty. Some book
// owners are snapshot-only profiles that never had an account row; that is
// how denormalized listings behave and is kept as-is.

func seedUsers() []User {
	return []User{
		{
			ID:         "u1",
			Name:       "Eleanor Vance",
			Email:      "eleanor@hillhouse.com",
			Password:   "user123",
			Avatar:     "https://picsum.photos/id/64/200/200",
			JoinedDate: time.Date(2023, time.September, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "u2",
			Name:       "Julian Black",
			Email:      "julian@example.com",
			Password:   "user123",
			Avatar:     "https://picsum.photos/id/91/200/200",
			JoinedDate: time.Date(2023, time.November, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "admin_01",
			Name:       "Administrator",
			Email:      "admin@idirbook.com",
			Password:   "admin123",
			Avatar:     "https://ui-avatars.com/api/?name=Admin&background=143628&color=fff",
			IsAdmin:    true,
			JoinedDate: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func seedBooks() []Book {
	julian := seedUsers()[1]
	return []Book{
		{
			ID:          "b1",
			Title:       "The Invisible Life of Addie LaRue",
			Author:      "V.E. Schwab",
			Description: "A life no one will remember. A story you will never forget. France, 1714: in a moment of desperation, a young woman makes a Faustian bargain to live forever and is cursed to be forgotten by everyone she meets.",
			Price:       "Swap Only",
			ImageURL:    "https://picsum.photos/id/24/300/450",
			Category:    "Fiction",
			Condition:   ConditionLikeNew,
			Status:      BookAvailable,
			Owner:       julian,
			Comments: []Comment{
				{
					ID:        "c1",
					UserID:    "u3",
					UserName:  "Sarah J.",
					Text:      "I have a first edition of Piranesi if you are interested in a trade?",
					Timestamp: time.Date(2023, time.October, 15, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			ID:          "b2",
			Title:       "Dune",
			Author:      "Frank Herbert",
			Description: "Set on the desert planet Arrakis, Dune is the story of the boy Paul Atreides, heir to a noble family tasked with ruling an inhospitable world where the only thing of value is the \"spice\" melange.",
			Price:       "$25",
			ImageURL:    "https://picsum.photos/id/35/300/450",
			Category:    "Science",
			Condition:   ConditionGood,
			Status:      BookAvailable,
			Owner: User{
				ID:         "u3",
				Name:       "Arthur Dent",
				Email:      "arthur@example.com",
				Avatar:     "https://picsum.photos/id/55/200/200",
				JoinedDate: time.Date(2023, time.December, 10, 0, 0, 0, 0, time.UTC),
			},
			Comments: []Comment{},
		},
		{
			ID:          "b3",
			Title:       "The Song of Achilles",
			Author:      "Madeline Miller",
			Description: "Greece in the age of heroes. Patroclus, an awkward young prince, has been exiled to the court of King Peleus and his perfect son Achilles.",
			Price:       "$18",
			ImageURL:    "https://picsum.photos/id/76/300/450",
			Category:    "History",
			Condition:   ConditionFair,
			Status:      BookAvailable,
			Owner: User{
				ID:         "u4",
				Name:       "Circe W.",
				Email:      "circe@example.com",
				Avatar:     "https://picsum.photos/id/65/200/200",
				JoinedDate: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
			},
			Comments: []Comment{},
		},
		{
			ID:          "b4",
			Title:       "Atomic Habits",
			Author:      "James Clear",
			Description: "No matter your goals, Atomic Habits offers a proven framework for improving--every day. James Clear, one of the world's leading experts on habit formation, reveals practical strategies.",
			Price:       "$20",
			ImageURL:    "https://picsum.photos/id/10/300/450",
			Category:    "Non-Fiction",
			Condition:   ConditionNew,
			Status:      BookAvailable,
			Owner:       julian,
			Comments:    []Comment{},
		},
	}
}
