package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

func main() {
	fmt.Println("Dashboard API Client Example")
	fmt.Println("============================")

	// Base URL for the API
	baseURL := "http://localhost:8080"

	// Check the server is up
	healthResp, err := http.Get(fmt.Sprintf("%s/api/health", baseURL))
	if err != nil {
		fmt.Printf("Error reaching dashboard: %v\n", err)
		os.Exit(1)
	}
	healthResp.Body.Close()

	// Add a task
	fmt.Println("\nAdding a task...")
	body, _ := json.Marshal(map[string]string{"text": "Finish CenterSquare memo"})
	addResp, err := http.Post(fmt.Sprintf("%s/api/tasks", baseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error adding task: %v\n", err)
		os.Exit(1)
	}
	addBody, _ := io.ReadAll(addResp.Body)
	addResp.Body.Close()
	fmt.Printf("Add response: %s\n", addBody)

	// List tasks
	fmt.Println("\nFetching the task list...")
	tasksResp, err := http.Get(fmt.Sprintf("%s/api/tasks", baseURL))
	if err != nil {
		fmt.Printf("Error fetching tasks: %v\n", err)
		os.Exit(1)
	}
	var tasksData map[string]interface{}
	tasksBody, _ := io.ReadAll(tasksResp.Body)
	tasksResp.Body.Close()
	json.Unmarshal(tasksBody, &tasksData)
	fmt.Printf("Tasks: %v\n", tasksData["tasks"])

	// Current vibe
	vibeResp, err := http.Get(fmt.Sprintf("%s/api/vibe", baseURL))
	if err != nil {
		fmt.Printf("Error fetching vibe: %v\n", err)
		os.Exit(1)
	}
	var vibeData map[string]interface{}
	vibeBody, _ := io.ReadAll(vibeResp.Body)
	vibeResp.Body.Close()
	json.Unmarshal(vibeBody, &vibeData)
	fmt.Printf("\nCurrent vibe: %v\n", vibeData["vibe"])

	// Weather summary
	fmt.Println("\nFetching the weather summary...")
	weatherResp, err := http.Get(fmt.Sprintf("%s/api/weather?periods=3", baseURL))
	if err != nil {
		fmt.Printf("Error fetching weather: %v\n", err)
		os.Exit(1)
	}
	weatherBody, _ := io.ReadAll(weatherResp.Body)
	weatherResp.Body.Close()

	if weatherResp.StatusCode != http.StatusOK {
		fmt.Printf("Weather unavailable: %s\n", weatherBody)
		return
	}

	var weatherData struct {
		Periods []struct {
			Name          string `json:"name"`
			Temperature   *int   `json:"temperature"`
			ShortForecast string `json:"shortForecast"`
			Icon          string `json:"icon"`
		} `json:"periods"`
	}
	json.Unmarshal(weatherBody, &weatherData)

	for _, p := range weatherData.Periods {
		temp := "?"
		if p.Temperature != nil {
			temp = fmt.Sprintf("%d°", *p.Temperature)
		}
		fmt.Printf("%s %s: %s, %s\n", p.Icon, p.Name, temp, p.ShortForecast)
	}
}
