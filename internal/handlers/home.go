package handlers

import "net/http"

// Home sends visitors to the drink list.
func Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/drinks", http.StatusFound)
}
