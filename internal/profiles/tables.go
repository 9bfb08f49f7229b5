package profiles

import "github.com/stitts-dev/futsal-ai/internal/models"

var positionNames = map[models.PositionID]string{
	models.PositionWinger:     "Perfil para posición 'Ala'",
	models.PositionPivot:      "Perfil para posición 'Pívot'",
	models.PositionFixo:       "Perfil para posición 'Poste'",
	models.PositionGoalkeeper: "Perfil para posición 'Arquero'",
}

var physicalNames = map[models.PhysicalID]string{
	models.PhysicalExplosive: "Jugador con alta explosividad y capacidad de salto",
	models.PhysicalBalanced:  "Jugador con buen equilibrio físico general",
	models.PhysicalResistant: "Jugador con mayor resistencia y menor explosividad",
	models.PhysicalPowerful:  "Jugador con mayor BMI y potencia física",
	models.PhysicalAgile:     "Jugador ágiles con buen rendimiento general",
}

var positionCharacteristics = map[models.PositionID]models.CategoryInfo{
	models.PositionWinger: {
		Description: "Jugadores con alto rendimiento en velocidad y salto. " +
			"Caracterizados por buena capacidad explosiva y valores superiores en saltos (especialmente bipodales). " +
			"BMI más bajo (22-24) y excelentes tiempos en pruebas de 30 metros (alrededor de 4.30 segundos). " +
			"Destacan en resistencia con tiempos competitivos en 1000 metros.",
		Strengths:        []string{"Velocidad en sprints cortos", "Capacidad de salto explosivo", "Agilidad", "Resistencia sostenida"},
		DevelopmentAreas: []string{"Potencia física en duelos", "Juego posicional"},
	},
	models.PositionPivot: {
		Description: "Jugadores con mayor BMI (27-31) y buena complexión física. " +
			"Destacan por combinación equilibrada de fuerza y agilidad. " +
			"Buenos tiempos en pruebas de velocidad (4.45-4.95 segundos) a pesar de su mayor peso. " +
			"Capacidad de salto moderada-alta con potencia para acciones ofensivas.",
		Strengths:        []string{"Presencia física", "Potencia en acciones cortas", "Equilibrio físico", "Juego de posición"},
		DevelopmentAreas: []string{"Velocidad sostenida", "Trabajo de resistencia aeróbica"},
	},
	models.PositionFixo: {
		Description: "Jugadores con perfil físico balanceado entre resistencia y técnica. " +
			"BMI moderado (22-25) y buenos valores en pruebas de salto. " +
			"Capacidad de mantener rendimiento constante con tiempos de resistencia aceptables. " +
			"Buena combinación de estabilidad defensiva y capacidad técnica.",
		Strengths:        []string{"Equilibrio físico general", "Posicionamiento", "Consistencia defensiva", "Lectura de juego"},
		DevelopmentAreas: []string{"Explosividad máxima", "Velocidad en primeros metros"},
	},
	models.PositionGoalkeeper: {
		Description: "Jugadores con perfil físico diverso, desde atlético hasta mayor BMI (23-39). " +
			"Destacan por buena capacidad de salto vertical para su contextura física. " +
			"Combinan respuesta explosiva con presencia física en portería. " +
			"Tiempos variables en pruebas de velocidad, priorizando reacción sobre velocidad sostenida.",
		Strengths:        []string{"Reacción explosiva", "Alcance vertical", "Presencia física", "Capacidad de blocaje"},
		DevelopmentAreas: []string{"Velocidad lateral", "Resistencia aeróbica", "Juego con los pies"},
	},
}

var physicalCharacteristics = map[models.PhysicalID]models.CategoryInfo{
	models.PhysicalExplosive: {
		Description: "Jugadores con excepcional capacidad de salto y velocidad. " +
			"Destacan por su explosividad en movimientos cortos y tienen buen rendimiento aeróbico. " +
			"Ideal para jugadas rápidas y contraataques.",
		Strengths:        []string{"Salto vertical (>60cm)", "Explosividad", "Velocidad en distancias cortas", "Agilidad"},
		DevelopmentAreas: []string{"Potencia sostenida", "Trabajo de masa muscular"},
		TrainingRecommendations: []string{
			"Ejercicios pliométricos avanzados",
			"Entrenamiento de velocidad con cambios de dirección",
			"Sprints repetitivos de 10-15 metros",
			"Trabajo técnico a alta intensidad",
		},
	},
	models.PhysicalBalanced: {
		Description: "Jugadores con un perfil físico bien balanceado. " +
			"Combinan buena capacidad de salto con resistencia adecuada. " +
			"Pueden mantener un rendimiento consistente durante todo el partido.",
		Strengths:        []string{"Equilibrio físico general", "Buena recuperación", "Salto medio-alto", "Rendimiento sostenido"},
		DevelopmentAreas: []string{"Explosividad", "Velocidad máxima"},
		TrainingRecommendations: []string{
			"Entrenamiento de fuerza funcional",
			"Circuitos de resistencia mixta",
			"Ejercicios de cambio de ritmo",
			"Trabajo técnico bajo fatiga controlada",
		},
	},
	models.PhysicalResistant: {
		Description: "Jugadores con alta capacidad aeróbica y resistencia. " +
			"Menor explosividad pero buena consistencia a lo largo del tiempo. " +
			"Adecuados para roles que requieren constancia y posicionamiento.",
		Strengths:        []string{"Resistencia aeróbica", "Recuperación entre esfuerzos", "Consistencia física"},
		DevelopmentAreas: []string{"Velocidad", "Potencia de salto", "Explosividad"},
		TrainingRecommendations: []string{
			"Intervalos de alta intensidad",
			"Trabajo de potenciación muscular",
			"Ejercicios pliométricos básicos",
			"Entrenamiento de aceleración",
		},
	},
	models.PhysicalPowerful: {
		Description: "Jugadores con mayor BMI y estructura física. " +
			"Gran potencia muscular pero menor agilidad en movimientos rápidos. " +
			"Excelentes para situaciones que requieren fortaleza física.",
		Strengths:        []string{"Potencia muscular", "Presencia física", "Estabilidad", "Fuerza en duelos"},
		DevelopmentAreas: []string{"Agilidad", "Velocidad", "Resistencia aeróbica", "Rango de movimiento"},
		TrainingRecommendations: []string{
			"Trabajo de movilidad y flexibilidad",
			"Entrenamiento de velocidad específico",
			"Ejercicios de coordinación",
			"Resistencia aeróbica progresiva",
			"Control de composición corporal",
		},
	},
	models.PhysicalAgile: {
		Description: "Jugadores con excelente combinación de velocidad y técnica. " +
			"Buenos saltos unipodales y velocidad en distancias cortas. " +
			"Destacan en situaciones que requieren agilidad y coordinación.",
		Strengths:        []string{"Velocidad en distancias cortas", "Coordinación", "Buenos saltos unipodales", "Agilidad"},
		DevelopmentAreas: []string{"Resistencia prolongada", "Potencia muscular general"},
		TrainingRecommendations: []string{
			"Ejercicios de coordinación avanzados",
			"Trabajo específico de técnica a alta velocidad",
			"Entrenamiento de resistencia específica para fútbol sala",
			"Ejercicios de reacción y tiempo de respuesta",
		},
	},
}

var specificRecommendations = map[models.PositionID]map[models.PhysicalID][]string{
	models.PositionWinger: {
		models.PhysicalExplosive: {
			"Maximizar capacidad de desborde en velocidad",
			"Desarrollar finalizaciones en carrera",
			"Trabajar transiciones ultrarrápidas defensa-ataque",
		},
		models.PhysicalBalanced: {
			"Balancear momentos de explosividad con fases de control",
			"Mejorar capacidad de presión sostenida",
			"Desarrollar mejor toma de decisiones en velocidad",
		},
		models.PhysicalResistant: {
			"Potenciar la velocidad en primeros metros",
			"Trabajar arranques explosivos tras recuperación",
			"Mejorar la definición tras esfuerzos prolongados",
		},
		models.PhysicalPowerful: {
			"Aprovechar potencia física en duelos por banda",
			"Trabajar aceleraciones cortas más explosivas",
			"Desarrollar mayor capacidad técnica a alta velocidad",
		},
		models.PhysicalAgile: {
			"Potenciar 1vs1 con cambios de ritmo y dirección",
			"Desarrollar repertorio técnico en espacios reducidos",
			"Mejorar finalización tras regates en velocidad",
		},
	},
	models.PositionPivot: {
		models.PhysicalExplosive: {
			"Potenciar giros y desmarques explosivos",
			"Desarrollar finalizaciones rápidas tras protección",
			"Trabajar transiciones ofensivas como referencia",
		},
		models.PhysicalBalanced: {
			"Mejorar juego de espaldas y protección de balón",
			"Trabajar bloqueos y pantallas seguidos de desmarque",
			"Desarrollar finalizaciones con oposición",
		},
		models.PhysicalResistant: {
			"Mejorar movimientos de desmarque continuo",
			"Trabajar capacidad para fijar defensas",
			"Desarrollar juego posicional sostenido",
		},
		models.PhysicalPowerful: {
			"Maximizar ventaja física en duelos dentro del área",
			"Trabajar técnica de pivote bajo presión defensiva",
			"Desarrollar finalizaciones de potencia",
		},
		models.PhysicalAgile: {
			"Potenciar movimientos de desmarque en espacios reducidos",
			"Trabajar recepciones orientadas a alta velocidad",
			"Desarrollar mayor repertorio técnico con balón",
		},
	},
	models.PositionFixo: {
		models.PhysicalExplosive: {
			"Desarrollar salidas rápidas de balón bajo presión",
			"Potenciar incorporaciones sorpresa al ataque",
			"Mejorar velocidad en transiciones defensivas",
		},
		models.PhysicalBalanced: {
			"Balancear distribución de esfuerzos durante el partido",
			"Mejorar anticipación y lectura defensiva",
			"Desarrollar mejor control del ritmo de juego",
		},
		models.PhysicalResistant: {
			"Potenciar consistencia técnica durante todo el partido",
			"Mejorar posicionamiento defensivo colectivo",
			"Desarrollar mejor comunicación y liderazgo defensivo",
		},
		models.PhysicalPowerful: {
			"Aprovechar presencia física en duelos defensivos",
			"Mejorar coberturas y ayudas defensivas",
			"Trabajar pases largo precisos en transiciones",
		},
		models.PhysicalAgile: {
			"Potenciar capacidad de recuperación e intercepción",
			"Desarrollar salida limpia de balón bajo presión",
			"Mejorar coordinación defensiva en línea",
		},
	},
	models.PositionGoalkeeper: {
		models.PhysicalExplosive: {
			"Maximizar capacidad de reacción en disparos cercanos",
			"Desarrollar salidas rápidas en 1vs1",
			"Potenciar juego con los pies en contragolpes",
		},
		models.PhysicalBalanced: {
			"Mejorar colocación bajo portería según situaciones",
			"Desarrollar distribución selectiva según contexto",
			"Trabajar comunicación defensiva avanzada",
		},
		models.PhysicalResistant: {
			"Potenciar concentración durante todo el partido",
			"Mejorar gestión del ritmo con distribución",
			"Desarrollar mejor lectura táctica del juego",
		},
		models.PhysicalPowerful: {
			"Aprovechar envergadura para mayor cobertura de portería",
			"Mejorar intimidación en salidas por alto",
			"Trabajar despeje potente y preciso para contragolpes",
		},
		models.PhysicalAgile: {
			"Potenciar reflejos en disparos desviados",
			"Desarrollar técnica de parada en diferentes alturas",
			"Mejorar rapidez de recuperación tras primera acción",
		},
	},
}
