package server

import (
<<<<<<< HEAD
	"fmt"
	"log/slog"
=======
	"fmt"
	"net/http"
>>>>>>> feature/http
)

func Greet(name string) string {
<<<<<<< HEAD
	return fmt.Sprintf("Hello, %s!", name)
||||||| base
	return "Hello, " + name
=======
	return fmt.Sprintf("Hi, %s", name)
>>>>>>> feature/http
}
