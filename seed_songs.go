package main

// defaultSongs is the catalog shipped with the server. The catalog is not
// persisted; every restart starts from these twelve records.
var defaultSongs = []Song{
	{ID: "1", Title: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera", Year: 1975, Genre: "Rock", Duration: "5:55"},
	{ID: "2", Title: "Hotel California", Artist: "Eagles", Album: "Hotel California", Year: 1976, Genre: "Rock", Duration: "6:30"},
	{ID: "3", Title: "Imagine", Artist: "John Lennon", Album: "Imagine", Year: 1971, Genre: "Pop", Duration: "3:07"},
	{ID: "4", Title: "Stairway to Heaven", Artist: "Led Zeppelin", Album: "Led Zeppelin IV", Year: 1971, Genre: "Rock", Duration: "8:02"},
	{ID: "5", Title: "Billie Jean", Artist: "Michael Jackson", Album: "Thriller", Year: 1982, Genre: "Pop", Duration: "4:54"},
	{ID: "6", Title: "Sweet Child O' Mine", Artist: "Guns N' Roses", Album: "Appetite for Destruction", Year: 1987, Genre: "Rock", Duration: "5:56"},
	{ID: "7", Title: "Like a Rolling Stone", Artist: "Bob Dylan", Album: "Highway 61 Revisited", Year: 1965, Genre: "Folk Rock", Duration: "6:13"},
	{ID: "8", Title: "Purple Rain", Artist: "Prince", Album: "Purple Rain", Year: 1984, Genre: "Pop Rock", Duration: "8:41"},
	{ID: "9", Title: "Smells Like Teen Spirit", Artist: "Nirvana", Album: "Nevermind", Year: 1991, Genre: "Grunge", Duration: "5:01"},
	{ID: "10", Title: "Yesterday", Artist: "The Beatles", Album: "Yesterday and Today", Year: 1966, Genre: "Pop", Duration: "2:05"},
	{ID: "11", Title: "Good Vibrations", Artist: "The Beach Boys", Album: "Smiley Smile", Year: 1966, Genre: "Pop", Duration: "3:37"},
	{ID: "12", Title: "Respect", Artist: "Aretha Franklin", Album: "I Never Loved a Man the Way I Love You", Year: 1967, Genre: "Soul", Duration: "2:27"},
}
