package content

// Prompt is the instruction sent alongside the uploaded files.
// It asks for a bare JSON document shaped like Generated.
const Prompt = `You are an expert educational content creator. Analyze the uploaded educational materials and generate complete, detailed educational content.

CRITICAL: You MUST return ONLY a valid JSON object. DO NOT include markdown formatting, code blocks, or any text outside the JSON.

Generate the following structure with ACTUAL CONTENT (not placeholders):

1. **Assignments** (Generate 2-3 complete assignments):
   Each assignment MUST have:
   - title: Clear, specific title
   - type: "Quiz", "Problem Set", "Essay", or "Project"
   - difficulty: "Beginner", "Intermediate", or "Advanced"
   - estimatedTime: e.g., "30 minutes"
   - description: Brief overview
   - totalPoints: Sum of all question points
   - questions: Array of 3-6 ACTUAL QUESTION OBJECTS (NOT empty, NOT placeholder)

   Each question object MUST include ALL these fields:
   {
     "questionNumber": 1,
     "questionText": "The actual, complete question based on the content",
     "questionType": "MCQ" or "Short Answer" or "Essay" or "True/False",
     "options": ["A) First option", "B) Second option", "C) Third option", "D) Fourth option"],
     "correctAnswer": "B",
     "explanation": "Detailed explanation of the correct answer",
     "points": 10
   }

2. **Flashcards** (Generate 8-12 flashcards):
   Each flashcard: {"front": "Question", "back": "Answer"}

3. **Summary** (1 detailed summary):
   {"title": "Content Overview", "content": "2-3 paragraphs", "keyPoints": ["point1", "point2", ...]}

4. **Topics** (4-6 relevant topics as strings)

RETURN THIS EXACT JSON STRUCTURE:
{
  "assignments": [
    {
      "title": "string",
      "type": "Quiz",
      "difficulty": "Intermediate",
      "estimatedTime": "30 minutes",
      "description": "string",
      "totalPoints": 50,
      "questions": [
        {
          "questionNumber": 1,
          "questionText": "string",
          "questionType": "MCQ",
          "options": ["A) option1", "B) option2", "C) option3", "D) option4"],
          "correctAnswer": "A",
          "explanation": "string",
          "points": 10
        }
      ]
    }
  ],
  "flashcards": [{"front": "string", "back": "string"}],
  "summaries": [{"title": "string", "content": "string", "keyPoints": ["string"]}],
  "matchedTopics": ["string"]
}

RULES:
- NO markdown code blocks (no ` + "```" + `json)
- NO text before or after the JSON
- questions array must contain actual question objects, not be empty
- Every assignment must have at least 3 questions
- Base all content on the uploaded material`
