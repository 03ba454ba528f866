package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// VisitRequest mirrors the backend's visit-registration payload.
type VisitRequest struct {
	OwnerName        string `json:"owner_name"`
	OwnerPhone       string `json:"owner_phone"`
	Model            string `json:"model"`
	Type             string `json:"type"`
	RegistrationYear *int   `json:"registration_year,omitempty"`
	OdometerKm       int    `json:"odometer_km"`
}

// ServiceRequest mirrors the backend's service-recording payload.
type ServiceRequest struct {
	OwnerPhone string `json:"owner_phone"`
	ItemKey    string `json:"item_key"`
	OdometerKm int    `json:"odometer_km"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// simVehicle tracks one synthetic customer between iterations.
type simVehicle struct {
	name     string
	phone    string
	model    string
	vtype    string
	regYear  int
	odometer int
	monthly  int
}

var firstNames = []string{"Dana", "Omer", "Noa", "Avi", "Maya", "Yossi", "Tal", "Shira", "Eli", "Rona"}

var fleet = []struct {
	model   string
	vtype   string
	monthly int
}{
	{"Toyota Corolla", "sedan", 1200},
	{"Mazda 3", "sedan", 1150},
	{"Suzuki Swift", "compact", 700},
	{"Hyundai Tucson", "suv", 1300},
	{"Kia Sportage", "suv", 1350},
	{"Ford Transit", "van", 2000},
	{"Isuzu D-Max", "truck", 2500},
}

var serviceItems = []string{"engine_oil", "oil_filter", "air_filter", "cabin_filter", "brake_pads"}

func randomVehicle(i int) *simVehicle {
	f := fleet[rand.Intn(len(fleet))]
	year := 2015 + rand.Intn(10)
	age := time.Now().Year() - year
	return &simVehicle{
		name:     firstNames[rand.Intn(len(firstNames))],
		phone:    fmt.Sprintf("+97250%07d", 1000000+i),
		model:    f.model,
		vtype:    f.vtype,
		regYear:  year,
		odometer: f.monthly*12*age + rand.Intn(5000),
		monthly:  f.monthly,
	}
}

func login(baseURL string) (string, error) {
	username := envOr("SIM_USERNAME", "admin")
	password := envOr("SIM_PASSWORD", "changeme")

	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(baseURL+"/api/auth/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("login failed: %s: %s", resp.Status, data)
	}
	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", err
	}
	return lr.Token, nil
}

func post(baseURL, path, token string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, data)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	baseURL := envOr("API_URL", "http://localhost:8080")
	count := 20
	if raw := os.Getenv("SIM_VEHICLES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}
	interval := 5 * time.Second
	if raw := os.Getenv("SIM_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			interval = d
		}
	}

	token, err := login(baseURL)
	if err != nil {
		log.Fatalf("simulator login: %v", err)
	}

	vehicles := make([]*simVehicle, count)
	for i := range vehicles {
		vehicles[i] = randomVehicle(i)
	}
	log.WithFields(log.Fields{"vehicles": count, "interval": interval}).Info("simulator started")

	for {
		v := vehicles[rand.Intn(len(vehicles))]
		// Advance the odometer by up to a month of driving per visit.
		v.odometer += rand.Intn(v.monthly + 1)

		visit := VisitRequest{
			OwnerName:        v.name,
			OwnerPhone:       v.phone,
			Model:            v.model,
			Type:             v.vtype,
			RegistrationYear: &v.regYear,
			OdometerKm:       v.odometer,
		}
		if err := post(baseURL, "/api/vehicles/visit", token, visit); err != nil {
			log.WithError(err).Warn("visit registration failed")
		} else {
			log.WithFields(log.Fields{"phone": v.phone, "odometer": v.odometer}).Info("visit registered")
		}

		// Roughly a third of visits include a completed service item.
		if rand.Intn(3) == 0 {
			svc := ServiceRequest{
				OwnerPhone: v.phone,
				ItemKey:    serviceItems[rand.Intn(len(serviceItems))],
				OdometerKm: v.odometer,
			}
			if err := post(baseURL, "/api/services", token, svc); err != nil {
				log.WithError(err).Warn("service recording failed")
			} else {
				log.WithFields(log.Fields{"phone": v.phone, "item": svc.ItemKey}).Info("service recorded")
			}
		}

		time.Sleep(interval)
	}
}
