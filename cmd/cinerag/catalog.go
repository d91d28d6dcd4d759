package main

import "github.com/poiesic/cinerag/core"

// sampleCatalog is a small built-in catalog for trying the pipeline
// without a data file.
func sampleCatalog() []*core.Movie {
	return []*core.Movie{
		{Title: "Toy Story", Genres: []string{"Animation", "Children", "Comedy"}, Year: 1995, Popularity: 0.92, Overview: "A cowboy doll is profoundly threatened when a new spaceman figure supplants him as top toy in a boy's room."},
		{Title: "The Matrix", Genres: []string{"Action", "Science Fiction"}, Year: 1999, Popularity: 0.95, Overview: "A computer hacker learns that reality as he knows it is a simulation and joins a rebellion against its controllers."},
		{Title: "Spirited Away", Genres: []string{"Animation", "Fantasy"}, Year: 2001, Popularity: 0.9, Overview: "A young girl wanders into a world ruled by spirits and witches, where humans are changed into beasts."},
		{Title: "Alien", Genres: []string{"Horror", "Science Fiction"}, Year: 1979, Popularity: 0.88, Overview: "The crew of a commercial spacecraft encounters a deadly lifeform after investigating an unknown transmission."},
		{Title: "The Shining", Genres: []string{"Horror"}, Year: 1980, Popularity: 0.87, Overview: "A family heads to an isolated hotel for the winter where a sinister presence drives the father to violence."},
		{Title: "When Harry Met Sally", Genres: []string{"Romance", "Comedy"}, Year: 1989, Popularity: 0.8, Overview: "Two friends wonder for years whether sex would ruin their friendship."},
		{Title: "Heat", Genres: []string{"Action", "Crime", "Thriller"}, Year: 1995, Popularity: 0.84, Overview: "A group of professional bank robbers start to feel the heat from police when they unknowingly leave a clue."},
		{Title: "The Godfather", Genres: []string{"Crime", "Drama"}, Year: 1972, Popularity: 0.97, Overview: "The aging patriarch of an organized crime dynasty transfers control of his empire to his reluctant son."},
		{Title: "Se7en", Genres: []string{"Crime", "Thriller"}, Year: 1995, Popularity: 0.89, Overview: "Two detectives hunt a serial killer who uses the seven deadly sins as his motives."},
		{Title: "Amelie", Genres: []string{"Romance", "Comedy"}, Year: 2001, Popularity: 0.85, Overview: "A shy waitress in Paris decides to change the lives of those around her for the better."},
		{Title: "Blade Runner", Genres: []string{"Science Fiction", "Thriller"}, Year: 1982, Popularity: 0.86, Overview: "A blade runner must pursue and terminate four replicants who stole a ship in space and have returned to Earth."},
		{Title: "Finding Nemo", Genres: []string{"Animation", "Children"}, Year: 2003, Popularity: 0.9, Overview: "After his son is captured in the Great Barrier Reef, a timid clownfish sets out to bring him home."},
		{Title: "The Silence of the Lambs", Genres: []string{"Thriller", "Horror"}, Year: 1991, Popularity: 0.91, Overview: "A young FBI cadet must receive the help of an incarcerated cannibal killer to catch another serial killer."},
		{Title: "Groundhog Day", Genres: []string{"Comedy", "Fantasy"}, Year: 1993, Popularity: 0.83, Overview: "A weatherman finds himself inexplicably living the same day over and over again."},
		{Title: "Inception", Genres: []string{"Action", "Science Fiction", "Thriller"}, Year: 2010, Popularity: 0.94, Overview: "A thief who steals corporate secrets through dream-sharing technology is given an inverse task: planting an idea."},
		{Title: "Casablanca", Genres: []string{"Romance", "Drama"}, Year: 1942, Popularity: 0.88, Overview: "A cynical expatriate cafe owner must choose between his love for a woman and helping her husband escape."},
		{Title: "Jurassic Park", Genres: []string{"Adventure", "Science Fiction"}, Year: 1993, Popularity: 0.92, Overview: "A pragmatic paleontologist touring an island dinosaur theme park must protect two children after a power failure."},
		{Title: "My Neighbor Totoro", Genres: []string{"Animation", "Children", "Fantasy"}, Year: 1988, Popularity: 0.84, Overview: "Two sisters move to the country with their father and discover the forest nearby is home to magical spirits."},
		{Title: "Goodfellas", Genres: []string{"Crime", "Drama"}, Year: 1990, Popularity: 0.9, Overview: "The story of Henry Hill and his life in the mob, covering his rise through the ranks."},
		{Title: "The Big Lebowski", Genres: []string{"Comedy", "Crime"}, Year: 1998, Popularity: 0.82, Overview: "A case of mistaken identity drags a laid-back bowler into a kidnapping scheme."},
	}
}
