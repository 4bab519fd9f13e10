package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600

	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleOAuth implements sign-in with Google: the callback resolves the
// Google account's email to a local user (created on first login) and
// issues the same JWT as password login.
type GoogleOAuth struct {
	conf *oauth2.Config
	// clientRedirect, when set, is the frontend URL the callback bounces
	// the token to; otherwise the token is returned as JSON.
	clientRedirect string
}

func NewGoogleOAuth(clientID, clientSecret, callbackURL, clientRedirect string) *GoogleOAuth {
	return &GoogleOAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
		},
		clientRedirect: clientRedirect,
	}
}

// Login starts the flow: a random state is pinned in a short-lived cookie
// and the caller is sent to Google's consent page.
func (g *GoogleOAuth) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := uuid.NewString()
		c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, g.conf.AuthCodeURL(state))
	}
}

func (g *GoogleOAuth) Callback(st *store.Store, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := c.Cookie(oauthStateCookie)
		if err != nil || state == "" || c.Query("state") != state {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OAuth state"})
			return
		}
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
			return
		}

		tok, err := g.conf.Exchange(c.Request.Context(), code)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "OAuth exchange failed"})
			return
		}
		email, err := g.fetchEmail(c.Request.Context(), tok)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not read Google profile"})
			return
		}

		user, err := findOrCreateOAuthUser(c.Request.Context(), st, email)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		token, err := issueToken(secret, user.ID, user.Username, user.Role)
		if err != nil {
			writeStoreError(c, err)
			return
		}

		if g.clientRedirect != "" {
			sep := "?"
			if strings.Contains(g.clientRedirect, "?") {
				sep = "&"
			}
			c.Redirect(http.StatusFound, g.clientRedirect+sep+"token="+url.QueryEscape(token))
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func (g *GoogleOAuth) fetchEmail(ctx context.Context, tok *oauth2.Token) (string, error) {
	resp, err := g.conf.Client(ctx, tok).Get(googleUserinfoURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo request returned %s", resp.Status)
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", fmt.Errorf("google profile has no email")
	}
	return info.Email, nil
}

// findOrCreateOAuthUser resolves a Google email to a local account. First
// login creates a user keyed by the email with an unguessable placeholder
// password, so the account can only be entered through OAuth.
func findOrCreateOAuthUser(ctx context.Context, st *store.Store, email string) (*models.User, error) {
	user, _, err := st.GetUserByUsername(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	id, err := st.CreateUser(ctx, email, string(placeholder), models.RoleUser)
	if errors.Is(err, store.ErrUsernameTaken) {
		// Lost a race with a concurrent first login for the same account.
		user, _, err = st.GetUserByUsername(ctx, email)
		return user, err
	}
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: email, Role: models.RoleUser}, nil
}
