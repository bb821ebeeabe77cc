package common

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AddFlash queues a message for the next rendered page.
func AddFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		log.Printf("Error saving flash message: %v", err)
	}
}

// Flashes pops pending flash messages. Without the sessions middleware it
// returns nil.
func Flashes(c *gin.Context) []interface{} {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	session := sessions.Default(c)
	messages := session.Flashes()
	if len(messages) > 0 {
		if err := session.Save(); err != nil {
			log.Printf("Error saving session: %v", err)
		}
	}
	return messages
}
